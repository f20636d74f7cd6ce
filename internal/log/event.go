package log

// EventType enumerates all observable tournament events.
type EventType int

const (
	EventRoundStart EventType = iota
	EventDeal
	EventBuy
	EventLevelUp
	EventReroll
	EventLock
	EventPairing
	EventFightResult
	EventSkip
	EventReward
	EventEliminated
	EventTournamentOver
)

func (e EventType) String() string {
	switch e {
	case EventRoundStart:
		return "RoundStart"
	case EventDeal:
		return "Deal"
	case EventBuy:
		return "Buy"
	case EventLevelUp:
		return "LevelUp"
	case EventReroll:
		return "Reroll"
	case EventLock:
		return "Lock"
	case EventPairing:
		return "Pairing"
	case EventFightResult:
		return "FightResult"
	case EventSkip:
		return "Skip"
	case EventReward:
		return "Reward"
	case EventEliminated:
		return "Eliminated"
	case EventTournamentOver:
		return "TournamentOver"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a tournament.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Round   int       // which round (1-based)
	Phase   string    // "Shop", "Fight" or "Rewards"
	Player  int       // acting player id, -1 when none
	Type    EventType // event type
	Card    string    // card id (if applicable)
	Details string    // human-readable detail string
}
