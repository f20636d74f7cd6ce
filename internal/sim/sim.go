// Package sim runs standalone duels and seeded batches of them outside a
// tournament.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
)

// CardSpec names a card at a level (0 means 1).
type CardSpec struct {
	ID    string `json:"id"`
	Level int    `json:"level,omitempty"`
}

// ParseCards reads a comma separated list of "id" or "id:level".
func ParseCards(s string) ([]CardSpec, error) {
	var out []CardSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, lvl, found := strings.Cut(part, ":")
		spec := CardSpec{ID: id}
		if found {
			n, err := strconv.Atoi(lvl)
			if err != nil {
				return nil, fmt.Errorf("bad level in %q", part)
			}
			spec.Level = n
		}
		out = append(out, spec)
	}
	return out, nil
}

// Loadout validates a hero and card list and builds a fresh fight loadout.
func Loadout(hero string, specs []CardSpec) (fight.Loadout, error) {
	ctor, ok := fight.HeroRegistry[hero]
	if !ok {
		return fight.Loadout{}, fmt.Errorf("unknown hero %q", hero)
	}
	seen := make(map[string]bool)
	owned := make([]*cards.Card, 0, len(specs))
	for _, cs := range specs {
		t, ok := cards.Registry[cs.ID]
		if !ok {
			return fight.Loadout{}, fmt.Errorf("unknown card %q", cs.ID)
		}
		level := cs.Level
		if level == 0 {
			level = 1
		}
		if level < 1 || level > t.MaxLevel {
			return fight.Loadout{}, fmt.Errorf("card %q level %d out of range", cs.ID, level)
		}
		if seen[cs.ID] {
			return fight.Loadout{}, fmt.Errorf("duplicate card %q", cs.ID)
		}
		seen[cs.ID] = true
		owned = append(owned, cards.New(cs.ID, level))
	}
	return cards.Loadout(ctor(), owned), nil
}

// Matchup is two heroes and their cards.
type Matchup struct {
	Hero1  string     `json:"hero1"`
	Hero2  string     `json:"hero2"`
	Cards1 []CardSpec `json:"cards1,omitempty"`
	Cards2 []CardSpec `json:"cards2,omitempty"`
}

// Loadouts builds both sides.
func (m Matchup) Loadouts() (fight.Loadout, fight.Loadout, error) {
	lo1, err := Loadout(m.Hero1, m.Cards1)
	if err != nil {
		return fight.Loadout{}, fight.Loadout{}, fmt.Errorf("fighter 1: %w", err)
	}
	lo2, err := Loadout(m.Hero2, m.Cards2)
	if err != nil {
		return fight.Loadout{}, fight.Loadout{}, fmt.Errorf("fighter 2: %w", err)
	}
	return lo1, lo2, nil
}

// Duel runs one fight of the matchup with the given seed.
func Duel(m Matchup, seed int64) (*fight.Capture, error) {
	lo1, lo2, err := m.Loadouts()
	if err != nil {
		return nil, err
	}
	return fight.Run(lo1, lo2, rand.New(rand.NewSource(seed))), nil
}

// Report aggregates a batch of duels.
type Report struct {
	Duels       int             `json:"duels"`
	Wins        [2]int          `json:"wins"`
	WinRate     [2]float64      `json:"winRate"`
	Timeouts    int             `json:"timeouts"` // duels that ran to the time limit
	AvgDuration float64         `json:"avgDuration"`
	AvgStats    [2]SideAverages `json:"avgStats"`
}

// SideAverages is fight.SideStats averaged over a batch.
type SideAverages struct {
	Damage    float64 `json:"damage"`
	Healing   float64 `json:"healing"`
	Ultimates float64 `json:"ultimates"`
	Attacks   float64 `json:"attacks"`
	Crits     float64 `json:"crits"`
	Evasions  float64 `json:"evasions"`
}

// Batch runs n duels seeded seed, seed+1, ... on at most workers goroutines
// (0 for no limit). Results do not depend on the worker count.
func Batch(ctx context.Context, m Matchup, n int, seed int64, workers int) (Report, error) {
	if n < 1 {
		return Report{}, fmt.Errorf("duel count must be positive, got %d", n)
	}
	if _, _, err := m.Loadouts(); err != nil {
		return Report{}, err
	}

	caps := make([]*fight.Capture, n)
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := Duel(m, seed+int64(i))
			caps[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{Duels: n}
	for _, c := range caps {
		side, _ := c.Winner()
		r.Wins[side]++
		if c.Duration() >= fight.Duration {
			r.Timeouts++
		}
		r.AvgDuration += c.Duration()
		for s, st := range c.Summary() {
			a := &r.AvgStats[s]
			a.Damage += st.DamageDealt
			a.Healing += st.Healing
			a.Ultimates += float64(st.Ultimates)
			a.Attacks += float64(st.Attacks)
			a.Crits += float64(st.Crits)
			a.Evasions += float64(st.Evasions)
		}
	}
	fn := float64(n)
	r.AvgDuration /= fn
	for s := range r.AvgStats {
		r.WinRate[s] = float64(r.Wins[s]) / fn
		a := &r.AvgStats[s]
		a.Damage /= fn
		a.Healing /= fn
		a.Ultimates /= fn
		a.Attacks /= fn
		a.Crits /= fn
		a.Evasions /= fn
	}
	return r, nil
}
