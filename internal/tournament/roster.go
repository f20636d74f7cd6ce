package tournament

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
)

// RosterFile represents the top-level YAML structure.
type RosterFile struct {
	Rosters []RosterEntry `yaml:"rosters"`
}

// RosterEntry is one named lineup of players.
type RosterEntry struct {
	Name    string        `yaml:"name"`
	Players []PlayerEntry `yaml:"players"`
}

// PlayerEntry describes a seat: its hero and any starting cards.
type PlayerEntry struct {
	Name  string      `yaml:"name"`
	Hero  string      `yaml:"hero"`
	AI    bool        `yaml:"ai"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is a starting card at a level (default 1).
type CardEntry struct {
	ID    string `yaml:"id"`
	Level int    `yaml:"level"`
}

// ReadRosterFile loads and parses a roster YAML file without building players.
func ReadRosterFile(path string) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rf RosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse roster YAML: %w", err)
	}
	return &rf, nil
}

// ParseRosterFile parses a YAML roster file and returns a map of roster name to players.
func ParseRosterFile(path string) (map[string][]*Player, error) {
	rf, err := ReadRosterFile(path)
	if err != nil {
		return nil, err
	}
	rosters := make(map[string][]*Player, len(rf.Rosters))
	for _, r := range rf.Rosters {
		players, err := r.build()
		if err != nil {
			return nil, fmt.Errorf("roster %q: %w", r.Name, err)
		}
		rosters[r.Name] = players
	}
	return rosters, nil
}

// RosterByNumber returns the Nth roster (1-indexed) from the roster file.
func RosterByNumber(path string, n int) (string, []*Player, error) {
	rf, err := ReadRosterFile(path)
	if err != nil {
		return "", nil, err
	}
	if n < 1 || n > len(rf.Rosters) {
		return "", nil, fmt.Errorf("roster %d not found (have %d rosters)", n, len(rf.Rosters))
	}
	r := rf.Rosters[n-1]
	players, err := r.build()
	if err != nil {
		return "", nil, fmt.Errorf("roster %q: %w", r.Name, err)
	}
	return r.Name, players, nil
}

func (r RosterEntry) build() ([]*Player, error) {
	if len(r.Players) == 0 {
		return nil, fmt.Errorf("no players")
	}
	players := make([]*Player, 0, len(r.Players))
	for i, pe := range r.Players {
		ctor, ok := fight.HeroRegistry[pe.Hero]
		if !ok {
			return nil, fmt.Errorf("player %q: unknown hero %q", pe.Name, pe.Hero)
		}
		name := pe.Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		p := NewPlayer(i, name, ctor())
		p.AI = pe.AI
		for _, ce := range pe.Cards {
			t, ok := cards.Registry[ce.ID]
			if !ok {
				return nil, fmt.Errorf("player %q: unknown card %q", name, ce.ID)
			}
			level := ce.Level
			if level == 0 {
				level = 1
			}
			if level < 1 || level > t.MaxLevel {
				return nil, fmt.Errorf("player %q: card %q level %d out of range", name, ce.ID, level)
			}
			if p.Owned(ce.ID) != nil {
				return nil, fmt.Errorf("player %q: duplicate card %q", name, ce.ID)
			}
			p.Cards = append(p.Cards, cards.New(ce.ID, level))
		}
		players = append(players, p)
	}
	return players, nil
}

// RandomRoster seats n AI players on random heroes.
func RandomRoster(n int, rng *rand.Rand) []*Player {
	ids := fight.HeroIDs()
	players := make([]*Player, n)
	for i := range players {
		players[i] = NewPlayer(i, fmt.Sprintf("Player %d", i+1), fight.LookupHero(ids[rng.Intn(len(ids))]))
		players[i].AI = true
	}
	return players
}
