package fight

// Procs are single-tick markers that effects gate on.
type Procs struct {
	Attack  bool
	Ulti    bool
	Crit    bool
	Evasion bool
	Regen   []float64 // heal amounts
}

func (p Procs) clone() Procs {
	c := p
	if p.Regen != nil {
		c.Regen = append([]float64(nil), p.Regen...)
	}
	return c
}

// Any reports whether any proc fired.
func (p Procs) Any() bool {
	return p.Attack || p.Ulti || p.Crit || p.Evasion || len(p.Regen) > 0
}

// Fighter is the mutable per-side state of one duel.
type Fighter struct {
	Hero *Hero

	HP          float64
	MaxHP       float64
	HPLost      float64
	Mana        float64
	ManaRegen   float64
	Attack      float64
	AttackSpeed float64 // attacks per second
	Crit        float64
	Evasion     float64
	UltiAmp     float64

	Procs     Procs
	NextProcs Procs

	Branches Branches
}

// NewFighter builds a fighter at full health with zero mana.
func NewFighter(h *Hero, b Branches) *Fighter {
	f := &Fighter{Hero: h, Branches: b}
	f.derive()
	f.HP = f.MaxHP
	return f
}

// Prepare starts a tick: the procs accumulated last tick become current,
// and stats are re-derived from the hero template and branch bonuses.
func (f *Fighter) Prepare() {
	f.Procs = f.NextProcs
	f.NextProcs = Procs{}
	f.derive()
}

// derive recomputes stats from hero + branches, preserving the hp ratio.
func (f *Fighter) derive() {
	h := f.Hero
	f.setMaxHP(h.HP + f.Branches.MaxHP)
	f.ManaRegen = h.ManaRegen + f.Branches.ManaRegen
	f.Attack = h.Attack + f.Branches.Attack
	f.AttackSpeed = h.AttackSpeed() + f.Branches.AttackSpeed
	f.Crit = clamp(h.Crit+f.Branches.Crit, 0, 1)
	f.Evasion = clamp(h.Evasion+f.Branches.Evasion, 0, 1)
	f.UltiAmp = 1 + f.Branches.UltiAmp
}

// setMaxHP changes max hp keeping hp/max_hp constant.
func (f *Fighter) setMaxHP(v float64) {
	if v < 1 {
		v = 1
	}
	if f.MaxHP <= 0 {
		f.MaxHP = v
		return
	}
	if v == f.MaxHP {
		return
	}
	ratio := f.HP / f.MaxHP
	f.MaxHP = v
	f.HP = clamp(v*ratio, 0, v)
}

// AttackPeriod returns seconds between basic attacks, or 0 if the fighter cannot attack.
func (f *Fighter) AttackPeriod() float64 {
	if f.AttackSpeed <= 0 {
		return 0
	}
	return 1 / f.AttackSpeed
}

// HPRatio returns hp / max_hp.
func (f *Fighter) HPRatio() float64 {
	if f.MaxHP <= 0 {
		return 0
	}
	return f.HP / f.MaxHP
}

// Clone returns a deep copy suitable for snapshots and effect views.
func (f *Fighter) Clone() Fighter {
	c := *f
	c.Procs = f.Procs.clone()
	c.NextProcs = f.NextProcs.clone()
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
