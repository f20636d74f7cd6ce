package fight

import "math/rand"

// Design constants shared with the presentation layer.
const (
	AttackMultiplier = 6.0
	CritMultiplier   = 2.0

	BeamFlightTime = 1.0
	HalveDelay     = 0.5

	FireCubeFires  = 27
	FireCubeDamage = 300.0 // split evenly across all fires

	SwiborgCount  = 5
	SwiborgDamage = 60.0
	SwiborgDelay  = 0.1
)

// Base values for the level tables of hero abilities.
const (
	healBeamBase   = 50.0
	damageBeamBase = 60.0
)

// --- Attack ---

type attack struct {
	timer float64
}

// NewAttack returns the basic attack: every attack period it hits the
// enemy for AttackMultiplier x attack, doubling on a crit roll.
func NewAttack() Effect {
	return &attack{}
}

func (a *attack) Name() string { return "Attack" }

func (a *attack) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	a.timer += delta
	period := self.AttackPeriod()
	if period <= 0 || a.timer+epsilon < period {
		return nil
	}
	a.timer = 0

	dmg := AttackMultiplier * self.Attack
	mods := make([]Modifier, 0, 3)
	if self.Crit > 0 && rng.Float64() < self.Crit {
		dmg *= CritMultiplier
		mods = append(mods, Proc(ProcCrit, 0, a.Name()))
	}
	mods = append(mods,
		Damage(dmg, Units, a.Name()),
		Proc(ProcNormalAttack, 0, a.Name()),
	)
	return mods
}

// --- RegenMana ---

type regenMana struct{}

// NewRegenMana returns the passive mana regeneration effect.
func NewRegenMana() Effect {
	return regenMana{}
}

func (regenMana) Name() string { return "RegenMana" }

func (r regenMana) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	return []Modifier{Stat(AffectMana, TargetSelf, self.ManaRegen*delta, r.Name())}
}

// --- Beams ---

type beam struct {
	name     string
	heal     bool
	value    float64
	inflight timers
}

// NewHealBeam returns an ultimate that heals the owner one second after it is shot.
func NewHealBeam(level int) Effect {
	return &beam{name: "HealBeam", heal: true, value: LevelValue(LevelTable(healBeamBase), level)}
}

// NewDamageBeam returns an ultimate that hits the enemy one second after it is shot.
func NewDamageBeam(level int) Effect {
	return &beam{name: "DamageBeam", value: LevelValue(LevelTable(damageBeamBase), level)}
}

func (b *beam) Name() string { return b.name }

func (b *beam) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	var mods []Modifier
	for n := b.inflight.advance(delta); n > 0; n-- {
		if b.heal {
			mods = append(mods,
				Heal(b.value, Ulti, b.name),
				Proc(ProcRegen, b.value*self.UltiAmp, b.name),
			)
		} else {
			mods = append(mods, Damage(b.value, Ulti, b.name))
		}
	}
	if self.Mana >= ManaMax {
		mods = append(mods,
			Stat(AffectMana, TargetSelf, -ManaMax, b.name),
			Proc(ProcUlti, 0, b.name),
			Cosmetic(ShootProjectile, b.name),
		)
		b.inflight = append(b.inflight, BeamFlightTime)
	}
	return mods
}

// --- Volleys (FireCube, StarWars) ---

// volley charges projectiles as mana fills, then releases them staggered
// once the ultimate threshold is reached.
type volley struct {
	name     string
	max      int
	damage   float64
	kind     ValueKind
	stagger  func(i int) float64
	charging int
	inflight timers
}

// NewFireCube returns the fire cube ultimate: up to 27 fires charge with
// mana and each landed fire deals an equal share of FireCubeDamage as ulti damage.
func NewFireCube() Effect {
	return &volley{
		name:    "FireCube",
		max:     FireCubeFires,
		damage:  FireCubeDamage / FireCubeFires,
		kind:    Ulti,
		stagger: func(i int) float64 { return float64(i+1) / FireCubeFires },
	}
}

// NewStarWars returns the swiborg ultimate: one swiborg spawns per 20 mana
// and each landed swiborg deals SwiborgDamage.
func NewStarWars() Effect {
	return &volley{
		name:    "StarWars",
		max:     SwiborgCount,
		damage:  SwiborgDamage,
		kind:    Units,
		stagger: func(i int) float64 { return SwiborgDelay * float64(i+1) },
	}
}

func (v *volley) Name() string { return v.name }

// Charging returns the number of projectiles waiting for the next release.
func (v *volley) Charging() int { return v.charging }

func (v *volley) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	var mods []Modifier
	for n := v.inflight.advance(delta); n > 0; n-- {
		mods = append(mods, Damage(v.damage, v.kind, v.name))
	}

	want := int(self.Mana / ManaMax * float64(v.max))
	if want > v.max {
		want = v.max
	}
	for v.charging < want {
		v.charging++
		mods = append(mods, Cosmetic(SpawnProjectile, v.name))
	}

	if self.Mana >= ManaMax {
		mods = append(mods,
			Stat(AffectMana, TargetSelf, -ManaMax, v.name),
			Proc(ProcUlti, 0, v.name),
		)
		for i := 0; i < v.charging; i++ {
			v.inflight = append(v.inflight, v.stagger(i))
			mods = append(mods, Cosmetic(ShootProjectile, v.name))
		}
		v.charging = 0
	}
	return mods
}

// --- Halve ---

type halve struct {
	pending timers
}

// NewHalve returns an ultimate that halves both fighters' hp after a short delay.
func NewHalve() Effect {
	return &halve{}
}

func (h *halve) Name() string { return "Halve" }

func (h *halve) Update(delta float64, self, enemy *Fighter, rng *rand.Rand) []Modifier {
	var mods []Modifier
	for n := h.pending.advance(delta); n > 0; n-- {
		mods = append(mods,
			HPChange(TargetSelf, Units, -self.HP/2, h.Name()),
			HPChange(TargetEnemy, Units, -enemy.HP/2, h.Name()),
		)
	}
	if self.Mana >= ManaMax {
		mods = append(mods,
			Stat(AffectMana, TargetSelf, -ManaMax, h.Name()),
			Proc(ProcUlti, 0, h.Name()),
			Cosmetic(ShootProjectile, h.Name()),
		)
		h.pending = append(h.pending, HalveDelay)
	}
	return mods
}
