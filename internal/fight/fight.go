package fight

import (
	"math/rand"
	"sort"
)

const (
	TickRate = 100
	Delta    = 1.0 / TickRate
	Duration = 60.0
	MaxTicks = int(Duration * TickRate)

	ManaMax = 100.0
)

// Loadout is everything one side brings into a fight.
type Loadout struct {
	Hero     *Hero
	Branches Branches
	Extra    []Factory // card-derived effects, instantiated after hero abilities
}

// regenProc is a Regen proc waiting for the tick's heals to settle.
type regenProc struct {
	side   Side
	source string
	amount float64
	index  int // position in the tick's applied list
}

// queued is a modifier waiting to be applied this tick.
type queued struct {
	owner Side
	mod   Modifier
}

// Fight runs one deterministic duel at TickRate ticks per second.
type Fight struct {
	fighters [2]*Fighter
	effects  [2][]Effect
	rng      *rand.Rand
	tick     int
	over     bool
	capture  *Capture

	// per tick: hp actually restored by each heal source, and Regen procs to settle
	healed [2]map[string]float64
	regens []regenProc
}

// New constructs fighters and effects for both sides and records the t=0 snapshot.
// A nil rng gets a fixed seed.
func New(f1, f2 Loadout, rng *rand.Rand) *Fight {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Fight{rng: rng, capture: &Capture{}}
	for i, lo := range [2]Loadout{f1, f2} {
		f.fighters[i] = NewFighter(lo.Hero, lo.Branches)
		effects := lo.Hero.NewAbilities()
		for _, mk := range lo.Extra {
			effects = append(effects, mk())
		}
		f.effects[i] = effects
	}
	f.capture.append(Snapshot{Time: 0, Fighters: f.cloneFighters()})
	return f
}

// Run simulates the duel to completion and returns its timeline.
func Run(f1, f2 Loadout, rng *rand.Rand) *Capture {
	f := New(f1, f2, rng)
	for f.Step() {
	}
	return f.Capture()
}

// Capture returns the timeline recorded so far.
func (f *Fight) Capture() *Capture {
	return f.capture
}

// Fighter returns the live state of one side.
func (f *Fight) Fighter(s Side) *Fighter {
	return f.fighters[s]
}

// Over reports whether the duel has ended.
func (f *Fight) Over() bool {
	return f.over
}

// Time returns the simulated time of the last tick.
func (f *Fight) Time() float64 {
	return float64(f.tick) * Delta
}

// Step advances the duel by one tick. It returns false once the duel is over.
func (f *Fight) Step() bool {
	if f.over {
		return false
	}
	f.tick++
	now := f.Time()

	// Effects see stats as of the end of the previous tick, and the procs
	// that tick produced.
	views := f.cloneFighters()
	for i, ft := range f.fighters {
		ft.Prepare()
		views[i].Procs = ft.Procs.clone()
		views[i].NextProcs = Procs{}
	}

	var queue []queued
	for side := Fighter1; side <= Fighter2; side++ {
		self, enemy := &views[side], &views[side.Other()]
		for _, e := range f.effects[side] {
			for _, m := range e.Update(Delta, self, enemy, f.rng) {
				queue = append(queue, queued{owner: side, mod: m})
			}
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		if a.owner != b.owner {
			return a.owner < b.owner
		}
		if a.mod.Target != b.mod.Target {
			return a.mod.Target < b.mod.Target
		}
		return a.mod.ValueKind < b.mod.ValueKind
	})

	f.healed = [2]map[string]float64{}
	f.regens = f.regens[:0]
	applied := make([]Applied, 0, len(queue))
	var down []Side
	for _, q := range queue {
		a := f.apply(q.owner, q.mod)
		if q.mod.Kind == ProcRegen {
			f.regens = append(f.regens, regenProc{side: a.Receiver, source: q.mod.Source, amount: a.Value, index: len(applied)})
		}
		applied = append(applied, a)
		hpKind := q.mod.Kind == AffectHP || q.mod.Kind == AffectHealCancel
		if hpKind && f.fighters[a.Receiver].HP <= 0 && !contains(down, a.Receiver) {
			down = append(down, a.Receiver)
		}
	}
	f.settleRegens(applied)

	if len(applied) > 0 {
		snap := Snapshot{Time: now, Fighters: f.cloneFighters(), Modifiers: applied}
		if loser, ok := f.loser(down); ok {
			snap.Winner = loser.Other()
			snap.Decided = true
			f.over = true
		}
		f.capture.append(snap)
	}

	if !f.over && f.tick >= MaxTicks {
		f.capture.append(f.expire())
		f.over = true
	}
	return !f.over
}

// settleRegens caps every Regen proc of the tick at the hp its source
// actually restored. Heals clamped at max hp produce no proc.
func (f *Fight) settleRegens(applied []Applied) {
	for _, r := range f.regens {
		got := max(0, min(r.amount, f.healed[r.side][r.source]))
		if got > 0 {
			f.healed[r.side][r.source] -= got
			f.fighters[r.side].NextProcs.Regen = append(f.fighters[r.side].NextProcs.Regen, got)
		}
		applied[r.index].Value = got
	}
}

// loser picks the knocked-out side: the first to reach zero this tick that
// is still down after every modifier applied. Sides brought back above zero
// later in the tick do not lose.
func (f *Fight) loser(down []Side) (Side, bool) {
	for _, s := range down {
		if f.fighters[s].HP <= 0 {
			return s, true
		}
	}
	return 0, false
}

// expire builds the terminal snapshot at Duration: more hp wins, ties go to Fighter1.
func (f *Fight) expire() Snapshot {
	snap := Snapshot{Time: Duration, Fighters: f.cloneFighters(), Decided: true, Winner: Fighter1}
	if f.fighters[Fighter2].HP > f.fighters[Fighter1].HP {
		snap.Winner = Fighter2
	}
	return snap
}

// apply mutates the receiver of m and returns the applied record.
func (f *Fight) apply(owner Side, m Modifier) Applied {
	recv := owner
	if m.Target == TargetEnemy {
		recv = owner.Other()
	}
	me, t := f.fighters[owner], f.fighters[recv]
	a := Applied{Owner: owner, Receiver: recv, Modifier: m, Value: m.Value}

	switch m.Kind {
	case AffectHP:
		v := m.Value
		if m.ValueKind == Ulti {
			v *= me.UltiAmp
		}
		a.Value = v
		if v < 0 {
			if t.Evasion > 0 && f.rng.Float64() <= t.Evasion {
				t.NextProcs.Evasion = true
				a.Evaded = true
				return a
			}
			t.HPLost -= v
		}
		before := t.HP
		t.HP = clamp(t.HP+v, 0, t.MaxHP)
		if gain := t.HP - before; gain > 0 {
			if f.healed[recv] == nil {
				f.healed[recv] = make(map[string]float64)
			}
			f.healed[recv][m.Source] += gain
		}
	case AffectHealCancel:
		taken := clamp(m.Value, 0, t.HP)
		t.HP -= taken
		a.Value = -taken
	case AffectMaxHP:
		t.setMaxHP(t.MaxHP + m.Value)
	case AffectMana:
		t.Mana = clamp(t.Mana+m.Value, 0, ManaMax)
	case AffectAttack:
		t.Attack = max(0, t.Attack+m.Value)
	case AffectAttackSpeed:
		t.AttackSpeed = max(0, t.AttackSpeed+m.Value)
	case AffectUltiAmp:
		t.UltiAmp = max(0, t.UltiAmp+m.Value)
	case AffectCrit:
		t.Crit = clamp(t.Crit+m.Value, 0, 1)
	case AffectEvasion:
		t.Evasion = clamp(t.Evasion+m.Value, 0, 1)
	case ProcNormalAttack:
		t.NextProcs.Attack = true
	case ProcUlti:
		t.NextProcs.Ulti = true
	case ProcCrit:
		t.NextProcs.Crit = true
	case ProcEvasion:
		t.NextProcs.Evasion = true
	case ProcRegen:
		// settled by settleRegens once the tick's heals are known
	}
	return a
}

func (f *Fight) cloneFighters() [2]Fighter {
	return [2]Fighter{f.fighters[0].Clone(), f.fighters[1].Clone()}
}

func contains(sides []Side, s Side) bool {
	for _, x := range sides {
		if x == s {
			return true
		}
	}
	return false
}
