package fight

import "sort"

// Snapshot is the state of both fighters after one tick, plus what happened in it.
type Snapshot struct {
	Time      float64
	Fighters  [2]Fighter
	Winner    Side
	Decided   bool
	Modifiers []Applied
}

// Capture is the recorded timeline of a fight in ascending time order.
type Capture struct {
	snapshots []Snapshot
}

func (c *Capture) append(s Snapshot) {
	c.snapshots = append(c.snapshots, s)
}

// Snapshots returns the recorded timeline. Callers must not modify it.
func (c *Capture) Snapshots() []Snapshot {
	return c.snapshots
}

// Duration returns the time of the last snapshot.
func (c *Capture) Duration() float64 {
	if len(c.snapshots) == 0 {
		return 0
	}
	return c.snapshots[len(c.snapshots)-1].Time
}

// Last returns the final snapshot.
func (c *Capture) Last() Snapshot {
	if len(c.snapshots) == 0 {
		return Snapshot{}
	}
	return c.snapshots[len(c.snapshots)-1]
}

// Winner returns the decided winner of a finished fight.
func (c *Capture) Winner() (Side, bool) {
	last := c.Last()
	return last.Winner, last.Decided
}

// Window merges every snapshot in [from, to): fighters and winner come from
// the latest one, modifiers are concatenated in time order.
func (c *Capture) Window(from, to float64) (Snapshot, bool) {
	lo := sort.Search(len(c.snapshots), func(i int) bool { return c.snapshots[i].Time >= from })
	hi := sort.Search(len(c.snapshots), func(i int) bool { return c.snapshots[i].Time >= to })
	if lo >= hi {
		return Snapshot{}, false
	}

	latest := c.snapshots[hi-1]
	merged := Snapshot{
		Time:     latest.Time,
		Fighters: latest.Fighters,
		Winner:   latest.Winner,
		Decided:  latest.Decided,
	}
	n := 0
	for _, s := range c.snapshots[lo:hi] {
		n += len(s.Modifiers)
	}
	merged.Modifiers = make([]Applied, 0, n)
	for _, s := range c.snapshots[lo:hi] {
		merged.Modifiers = append(merged.Modifiers, s.Modifiers...)
	}
	return merged, true
}

// SideStats aggregates what one side did over a fight.
type SideStats struct {
	DamageDealt float64
	Healing     float64
	Ultimates   int
	Attacks     int
	Crits       int
	Evasions    int // hits this side dodged
}

// Summary tallies per-side totals from the applied modifiers.
func (c *Capture) Summary() [2]SideStats {
	var out [2]SideStats
	for _, s := range c.snapshots {
		for _, a := range s.Modifiers {
			switch a.Modifier.Kind {
			case AffectHP:
				switch {
				case a.Evaded:
					out[a.Receiver].Evasions++
				case a.Value < 0 && a.Receiver != a.Owner:
					out[a.Owner].DamageDealt -= a.Value
				case a.Value > 0:
					out[a.Owner].Healing += a.Value
				}
			case AffectHealCancel:
				out[a.Receiver].Healing += a.Value
			case ProcUlti:
				out[a.Owner].Ultimates++
			case ProcNormalAttack:
				out[a.Owner].Attacks++
			case ProcCrit:
				out[a.Owner].Crits++
			}
		}
	}
	return out
}
