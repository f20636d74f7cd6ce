package cards

import (
	"math/rand"

	"github.com/peterkuimelis/autoduel/internal/fight"
)

// Proc chances and stacking rules shared by the card effects.
const (
	ProcChance = 0.6 // EnergySource / PlasmaStrike gate

	healingFlowPeriod  = 1.0
	healingDronePeriod = 2.0

	precisionHitDuration = 3.0
	precisionHitMax      = 5
	shooterLuckDuration  = 4.0
	shooterLuckMax       = 3

	medkitHPLostUnit = 400.0
)

// --- Persistent stat cards ---

// statBuff re-emits a stat modifier every tick; prepare() wipes it otherwise.
type statBuff struct {
	name   string
	kind   fight.Kind
	target fight.Target
	value  func(self, enemy *fight.Fighter) float64
}

func (s *statBuff) Name() string { return s.name }

func (s *statBuff) Update(delta float64, self, enemy *fight.Fighter, rng *rand.Rand) []fight.Modifier {
	v := s.value(self, enemy)
	if v == 0 {
		return nil
	}
	return []fight.Modifier{fight.Stat(s.kind, s.target, v, s.name)}
}

func constant(v float64) func(self, enemy *fight.Fighter) float64 {
	return func(_, _ *fight.Fighter) float64 { return v }
}

func newIncreaseAttack(v float64) fight.Effect {
	return &statBuff{name: "IncreaseAttack", kind: fight.AffectAttack, target: fight.TargetSelf, value: constant(v)}
}

func newCombatMedkit(v float64) fight.Effect {
	return &statBuff{name: "CombatMedkit", kind: fight.AffectAttack, target: fight.TargetSelf,
		value: func(self, _ *fight.Fighter) float64 { return v * self.HPLost / medkitHPLostUnit }}
}

func newManaCrystal(v float64) fight.Effect {
	return &statBuff{name: "ManaCrystal", kind: fight.AffectUltiAmp, target: fight.TargetSelf, value: constant(v)}
}

func newLifeSymbiosis(v float64) fight.Effect {
	return &statBuff{name: "LifeSymbiosis", kind: fight.AffectUltiAmp, target: fight.TargetSelf,
		value: func(self, _ *fight.Fighter) float64 { return v * (1 - self.HPRatio()) }}
}

func newEnergyDrain(v float64) fight.Effect {
	return &statBuff{name: "EnergyDrain", kind: fight.AffectUltiAmp, target: fight.TargetEnemy, value: constant(-v)}
}

func newIllness(v float64) fight.Effect {
	return &statBuff{name: "Illness", kind: fight.AffectMaxHP, target: fight.TargetEnemy, value: constant(-v)}
}

func newLifeEssence(v float64) fight.Effect {
	return &statBuff{name: "LifeEssence", kind: fight.AffectMaxHP, target: fight.TargetSelf, value: constant(v)}
}

// --- Periodic heals ---

type periodicHeal struct {
	name   string
	period float64
	amount func(self *fight.Fighter) float64
	timer  float64
}

func (p *periodicHeal) Name() string { return p.name }

func (p *periodicHeal) Update(delta float64, self, enemy *fight.Fighter, rng *rand.Rand) []fight.Modifier {
	p.timer += delta
	if p.timer+1e-9 < p.period {
		return nil
	}
	p.timer = 0
	v := p.amount(self)
	if v <= 0 {
		return nil
	}
	return regen(v, p.name)
}

func newHealingFlow(v float64) fight.Effect {
	return &periodicHeal{name: "HealingFlow", period: healingFlowPeriod,
		amount: func(*fight.Fighter) float64 { return v }}
}

// v is a percentage of hp lost so far.
func newHealingDrone(v float64) fight.Effect {
	return &periodicHeal{name: "HealingDrone", period: healingDronePeriod,
		amount: func(self *fight.Fighter) float64 { return self.HPLost * v / 100 }}
}

// regen heals the owner and reports the amount as a Regen proc.
func regen(v float64, source string) []fight.Modifier {
	return []fight.Modifier{
		fight.Heal(v, fight.Units, source),
		fight.Proc(fight.ProcRegen, v, source),
	}
}

// --- Proc triggers ---

// trigger fires when the owner's proc from the previous tick is set.
type trigger struct {
	name   string
	on     func(p fight.Procs) bool
	chance float64 // 0 means always
	fire   func(name string) []fight.Modifier
}

func (t *trigger) Name() string { return t.name }

func (t *trigger) Update(delta float64, self, enemy *fight.Fighter, rng *rand.Rand) []fight.Modifier {
	if !t.on(self.Procs) {
		return nil
	}
	if t.chance > 0 && rng.Float64() >= t.chance {
		return nil
	}
	return t.fire(t.name)
}

func onAttack(p fight.Procs) bool  { return p.Attack }
func onCrit(p fight.Procs) bool    { return p.Crit }
func onEvasion(p fight.Procs) bool { return p.Evasion }

func healFor(v float64) func(string) []fight.Modifier {
	return func(name string) []fight.Modifier { return regen(v, name) }
}

func damageFor(v float64) func(string) []fight.Modifier {
	return func(name string) []fight.Modifier {
		return []fight.Modifier{fight.Damage(v, fight.Units, name)}
	}
}

func manaFor(v float64) func(string) []fight.Modifier {
	return func(name string) []fight.Modifier {
		return []fight.Modifier{fight.Stat(fight.AffectMana, fight.TargetSelf, v, name)}
	}
}

func newEnergySource(v float64) fight.Effect {
	return &trigger{name: "EnergySource", on: onAttack, chance: ProcChance, fire: healFor(v)}
}

func newPlasmaStrike(v float64) fight.Effect {
	return &trigger{name: "PlasmaStrike", on: onAttack, chance: ProcChance, fire: manaFor(v)}
}

func newLuckyBullet(v float64) fight.Effect {
	return &trigger{name: "LuckyBullet", on: onCrit, fire: damageFor(v)}
}

func newPlasmaCharge(v float64) fight.Effect {
	return &trigger{name: "PlasmaCharge", on: onCrit, fire: manaFor(v)}
}

func newAgilityCapsule(v float64) fight.Effect {
	return &trigger{name: "AgilityCapsule", on: onEvasion, fire: healFor(v)}
}

func newShadowCaster(v float64) fight.Effect {
	return &trigger{name: "ShadowCaster", on: onEvasion, fire: damageFor(v)}
}

// --- Stacking buffs ---

// stacks gains a timed stack on each trigger, capped at max, and emits
// stacks x value of its stat every tick.
type stacks struct {
	name     string
	kind     fight.Kind
	on       func(p fight.Procs) bool
	value    float64
	duration float64
	max      int
	active   []float64 // remaining seconds per stack
}

func (s *stacks) Name() string { return s.name }

// Stacks returns the number of live stacks.
func (s *stacks) Stacks() int { return len(s.active) }

func (s *stacks) Update(delta float64, self, enemy *fight.Fighter, rng *rand.Rand) []fight.Modifier {
	kept := s.active[:0]
	for _, left := range s.active {
		if left -= delta; left > 1e-9 {
			kept = append(kept, left)
		}
	}
	s.active = kept

	if s.on(self.Procs) {
		if len(s.active) < s.max {
			s.active = append(s.active, s.duration)
		} else {
			// refresh the oldest stack
			s.active = append(s.active[1:], s.duration)
		}
	}
	if len(s.active) == 0 {
		return nil
	}
	return []fight.Modifier{fight.Stat(s.kind, fight.TargetSelf, s.value*float64(len(s.active)), s.name)}
}

func newPrecisionHit(v float64) fight.Effect {
	return &stacks{name: "PrecisionHit", kind: fight.AffectCrit, on: onAttack,
		value: v, duration: precisionHitDuration, max: precisionHitMax}
}

func newShooterLuck(v float64) fight.Effect {
	return &stacks{name: "ShooterLuck", kind: fight.AffectEvasion, on: onCrit,
		value: v, duration: shooterLuckDuration, max: shooterLuckMax}
}

// --- Exhaustion ---

// exhaustion rolls once per enemy Regen proc and, on success, takes back the
// hp that regen restored.
type exhaustion struct {
	chance float64
}

func newExhaustion(v float64) fight.Effect {
	return &exhaustion{chance: v}
}

func (e *exhaustion) Name() string { return "Exhaustion" }

func (e *exhaustion) Update(delta float64, self, enemy *fight.Fighter, rng *rand.Rand) []fight.Modifier {
	var mods []fight.Modifier
	for _, amount := range enemy.Procs.Regen {
		if rng.Float64() < e.chance {
			mods = append(mods, fight.CancelHeal(amount, e.Name()))
		}
	}
	return mods
}
