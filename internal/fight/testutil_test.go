package fight

import (
	"math"
	"math/rand"
	"testing"
)

// testHero builds a bare hero with the given abilities.
func testHero(name string, hp, attack, period, crit, evasion float64, abilities ...Factory) *Hero {
	return &Hero{
		ID:           name,
		Name:         name,
		HP:           hp,
		Attack:       attack,
		AttackPeriod: period,
		Crit:         crit,
		Evasion:      evasion,
		Abilities:    abilities,
	}
}

// scripted emits mods on one tick and nothing otherwise.
type scripted struct {
	tick, at int
	mods     []Modifier
}

func (s *scripted) Name() string { return "Scripted" }

func (s *scripted) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	s.tick++
	if s.tick != s.at {
		return nil
	}
	return s.mods
}

func scriptedAt(tick int, mods ...Modifier) Factory {
	return func() Effect { return &scripted{at: tick, mods: mods} }
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// appliedFrom returns every applied modifier of the given kind and source, with its snapshot time.
func appliedFrom(c *Capture, kind Kind, source string) (times []float64, mods []Applied) {
	for _, s := range c.Snapshots() {
		for _, a := range s.Modifiers {
			if a.Modifier.Kind == kind && a.Modifier.Source == source {
				times = append(times, s.Time)
				mods = append(mods, a)
			}
		}
	}
	return times, mods
}

// checkInvariants verifies the per-snapshot guarantees of a finished capture.
func checkInvariants(t *testing.T, c *Capture) {
	t.Helper()
	snaps := c.Snapshots()
	if len(snaps) == 0 {
		t.Fatal("empty capture")
	}
	if snaps[0].Time != 0 {
		t.Errorf("first snapshot at %v, want 0", snaps[0].Time)
	}

	var taken [2]float64
	var prevLost [2]float64
	prevTime := 0.0
	for i, s := range snaps {
		if s.Time < prevTime {
			t.Fatalf("snapshot %d at %v precedes %v", i, s.Time, prevTime)
		}
		prevTime = s.Time

		for _, a := range s.Modifiers {
			if a.Modifier.Kind == AffectHP && !a.Evaded && a.Value < 0 {
				taken[a.Receiver] -= a.Value
			}
		}
		for side, f := range s.Fighters {
			if f.HP < 0 || f.HP > f.MaxHP {
				t.Errorf("snapshot %d: %v hp %v outside [0, %v]", i, Side(side), f.HP, f.MaxHP)
			}
			if f.Mana < 0 || f.Mana > ManaMax {
				t.Errorf("snapshot %d: %v mana %v outside [0, 100]", i, Side(side), f.Mana)
			}
			if f.Attack < 0 || f.AttackSpeed < 0 {
				t.Errorf("snapshot %d: %v negative attack stats", i, Side(side))
			}
			if f.HPLost < prevLost[side] {
				t.Errorf("snapshot %d: %v hp_lost decreased %v -> %v", i, Side(side), prevLost[side], f.HPLost)
			}
			prevLost[side] = f.HPLost
			if !approx(f.HPLost, taken[side], 1e-6) {
				t.Errorf("snapshot %d: %v hp_lost %v, damage taken %v", i, Side(side), f.HPLost, taken[side])
			}
		}
		if i < len(snaps)-1 && s.Decided {
			t.Errorf("snapshot %d decided before the end", i)
		}
	}

	last := c.Last()
	if !last.Decided {
		t.Error("final snapshot has no winner")
	}
	if last.Time > Duration+1e-9 {
		t.Errorf("final snapshot at %v past duration", last.Time)
	}
}
