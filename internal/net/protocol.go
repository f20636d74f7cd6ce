package net

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_shop_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "round_result"
	Results []ResultView `json:"results,omitempty"`

	// For "tournament_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified tournament event for the client.
type EventView struct {
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// CardView describes a card in a loadout or shop slot.
type CardView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Branches    []string `json:"branches"`
	Level       int      `json:"level"`
	MaxLevel    int      `json:"max_level"`
	Cost        int      `json:"cost"`
	Value       float64  `json:"value"`
}

// SlotView is one reserved shop entry.
type SlotView struct {
	Index  int      `json:"index"`
	Active bool     `json:"active"`
	Card   CardView `json:"card"`
}

// PlayerView shows one tournament seat. Shop and loadout are only filled for "you".
type PlayerView struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Hero     string     `json:"hero"`
	Money    int        `json:"money"`
	HP       int        `json:"hp"`
	Attack   int        `json:"attack"`
	Alive    bool       `json:"alive"`
	Cards    []CardView `json:"cards,omitempty"`
	Reserved []SlotView `json:"reserved,omitempty"`
}

// StateView is the tournament from one player's perspective.
type StateView struct {
	Tournament string       `json:"tournament"`
	Round      int          `json:"round"`
	Locked     bool         `json:"locked"`
	You        PlayerView   `json:"you"`
	Others     []PlayerView `json:"others"`
}

// ResultView summarizes one pairing of a round.
type ResultView struct {
	Index    int            `json:"index"`
	Kind     string         `json:"kind"`
	Player1  string         `json:"player1"`
	Player2  string         `json:"player2,omitempty"`
	Winner   string         `json:"winner,omitempty"`
	Duration float64        `json:"duration,omitempty"`
	Stats    []SideStatView `json:"stats,omitempty"`
}

// SideStatView is one side's totals over a fight.
type SideStatView struct {
	Damage    float64 `json:"damage"`
	Healing   float64 `json:"healing"`
	Ultimates int     `json:"ultimates"`
	Attacks   int     `json:"attacks"`
	Crits     int     `json:"crits"`
	Evasions  int     `json:"evasions"`
}

// FighterView is the scalar state of one fighter at a snapshot.
type FighterView struct {
	Hero        string  `json:"hero"`
	HP          float64 `json:"hp"`
	MaxHP       float64 `json:"max_hp"`
	HPLost      float64 `json:"hp_lost"`
	Mana        float64 `json:"mana"`
	Attack      float64 `json:"attack"`
	AttackSpeed float64 `json:"attack_speed"`
	Crit        float64 `json:"crit"`
	Evasion     float64 `json:"evasion"`
	UltiAmp     float64 `json:"ulti_amp"`
}

// ModifierView is one applied modifier.
type ModifierView struct {
	Owner     int     `json:"owner"`
	Receiver  int     `json:"receiver"`
	Kind      string  `json:"kind"`
	ValueKind string  `json:"value_kind"`
	Value     float64 `json:"value"`
	Source    string  `json:"source"`
	Evaded    bool    `json:"evaded,omitempty"`
}

// SnapshotView is a (possibly merged) timeline snapshot.
type SnapshotView struct {
	Time      float64        `json:"time"`
	Fighters  [2]FighterView `json:"fighters"`
	Winner    *int           `json:"winner,omitempty"`
	Modifiers []ModifierView `json:"modifiers"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action"
	Index int `json:"index,omitempty"`

	// For "join" (initial handshake)
	Name string `json:"name,omitempty"`
	Hero string `json:"hero,omitempty"`
}
