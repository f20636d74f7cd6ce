package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Phases of a tournament round.
const (
	PhaseShop    = "Shop"
	PhaseFight   = "Fight"
	PhaseRewards = "Rewards"
)

// EventLogger is the interface for logging tournament events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

// Events returns a copy of every event logged so far.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the events with Seq greater than seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	fmt.Fprintln(l.w, FormatEvent(l.record(event)))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("R%-2d %-8s| %s", e.Round, e.Phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewRoundStartEvent(round, alive int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseFight,
		Player:  -1,
		Type:    EventRoundStart,
		Details: fmt.Sprintf("=== Round %d (%d alive) ===", round, alive),
	}
}

func NewDealEvent(round, player int, name string, cardIDs []string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseShop,
		Player:  player,
		Type:    EventDeal,
		Details: fmt.Sprintf("%s is offered %s", name, strings.Join(cardIDs, ", ")),
	}
}

func NewBuyEvent(round, player int, name, cardID string, cost, money int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseShop,
		Player:  player,
		Type:    EventBuy,
		Card:    cardID,
		Details: fmt.Sprintf("%s buys %s for %d (%d left)", name, cardID, cost, money),
	}
}

func NewLevelUpEvent(round, player int, name, cardID string, level int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseShop,
		Player:  player,
		Type:    EventLevelUp,
		Card:    cardID,
		Details: fmt.Sprintf("%s levels %s to %d", name, cardID, level),
	}
}

func NewRerollEvent(round, player int, name string, paid bool) GameEvent {
	how := "free"
	if paid {
		how = "paid"
	}
	return GameEvent{
		Round:   round,
		Phase:   PhaseShop,
		Player:  player,
		Type:    EventReroll,
		Details: fmt.Sprintf("%s rerolls the shop (%s)", name, how),
	}
}

func NewLockEvent(round int, locked bool) GameEvent {
	state := "unlocked"
	if locked {
		state = "locked"
	}
	return GameEvent{
		Round:   round,
		Phase:   PhaseShop,
		Player:  -1,
		Type:    EventLock,
		Details: fmt.Sprintf("Shop %s", state),
	}
}

func NewPairingEvent(round, p1, p2 int, name1, name2 string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseFight,
		Player:  p1,
		Type:    EventPairing,
		Details: fmt.Sprintf("%s vs %s", name1, name2),
	}
}

func NewFightResultEvent(round, winner int, winnerName, loserName string, duration float64) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseFight,
		Player:  winner,
		Type:    EventFightResult,
		Details: fmt.Sprintf("%s defeats %s in %.2fs", winnerName, loserName, duration),
	}
}

func NewSkipEvent(round, player int, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseFight,
		Player:  player,
		Type:    EventSkip,
		Details: fmt.Sprintf("%s sits out", name),
	}
}

func NewRewardEvent(round, player int, name string, money, hp, attack int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseRewards,
		Player:  player,
		Type:    EventReward,
		Details: fmt.Sprintf("%s: money %d, hp %d, attack %d", name, money, hp, attack),
	}
}

func NewEliminatedEvent(round, player int, name string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   PhaseRewards,
		Player:  player,
		Type:    EventEliminated,
		Details: fmt.Sprintf("%s is eliminated", name),
	}
}

func NewTournamentOverEvent(round, champion int, name string) GameEvent {
	details := "Tournament over: no champion"
	if champion >= 0 {
		details = fmt.Sprintf("Tournament over: %s wins", name)
	}
	return GameEvent{
		Round:   round,
		Phase:   PhaseRewards,
		Player:  champion,
		Type:    EventTournamentOver,
		Details: details,
	}
}
