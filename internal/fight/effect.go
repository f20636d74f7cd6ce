package fight

import "math/rand"

// Effect is a stateful per-tick producer of modifiers.
//
// Update receives read-only views of both fighters as of the start of the
// tick. Implementations may keep their own timers and projectile queues but
// must not modify the views.
type Effect interface {
	Name() string
	Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier
}

// Factory constructs a fresh effect at fight start.
type Factory func() Effect

// LevelTable returns the five-tier parameter table {1,2,3,4,6} x base.
func LevelTable(base float64) [5]float64 {
	return [5]float64{base, 2 * base, 3 * base, 4 * base, 6 * base}
}

// LevelValue looks up a level (1-based) in a level table.
// Panics on levels outside [1, 5].
func LevelValue(table [5]float64, level int) float64 {
	if level < 1 || level > len(table) {
		panic("level out of range")
	}
	return table[level-1]
}

// timers is a list of countdowns shared by effects that schedule delayed hits.
type timers []float64

// advance decrements every countdown by delta and returns how many expired.
// Expired entries are removed in FIFO order.
func (t *timers) advance(delta float64) int {
	landed := 0
	kept := (*t)[:0]
	for _, left := range *t {
		left -= delta
		if left <= epsilon {
			landed++
			continue
		}
		kept = append(kept, left)
	}
	*t = kept
	return landed
}

const epsilon = 1e-9
