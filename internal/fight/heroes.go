package fight

import (
	"fmt"
	"sort"
)

// Hero is an immutable fighter template.
type Hero struct {
	ID          string
	Name        string
	Description string

	HP           float64
	ManaRegen    float64 // mana per second
	Attack       float64
	AttackPeriod float64 // seconds between basic attacks
	Crit         float64
	Evasion      float64

	// Preferred branches steer AI card purchases.
	Preferred []Branch

	// Abilities are instantiated in order at fight start.
	Abilities []Factory
}

func (h *Hero) String() string {
	return h.Name
}

// AttackSpeed returns attacks per second.
func (h *Hero) AttackSpeed() float64 {
	if h.AttackPeriod <= 0 {
		return 0
	}
	return 1 / h.AttackPeriod
}

// NewAbilities instantiates the hero's ability roster.
func (h *Hero) NewAbilities() []Effect {
	out := make([]Effect, 0, len(h.Abilities))
	for _, f := range h.Abilities {
		out = append(out, f())
	}
	return out
}

// Prefers reports whether b is one of the hero's preferred branches.
func (h *Hero) Prefers(b Branch) bool {
	for _, p := range h.Preferred {
		if p == b {
			return true
		}
	}
	return false
}

// Ultimates precede RegenMana: a spend and a regen in one tick keep the regen.

// FieldMedic: sustain hero with a healing beam.
func FieldMedic() *Hero {
	return &Hero{
		ID:           "medic",
		Name:         "Field Medic",
		Description:  "Heals with a delayed beam every time mana fills.",
		HP:           1100,
		ManaRegen:    12,
		Attack:       8,
		AttackPeriod: 1.0,
		Crit:         0.05,
		Evasion:      0.05,
		Preferred:    []Branch{BranchRegen, BranchHp},
		Abilities: []Factory{
			NewAttack,
			func() Effect { return NewHealBeam(3) },
			NewRegenMana,
		},
	}
}

// BeamStriker: burst hero with a damage beam.
func BeamStriker() *Hero {
	return &Hero{
		ID:           "striker",
		Name:         "Beam Striker",
		Description:  "Fires a heavy beam at the enemy whenever mana is full.",
		HP:           950,
		ManaRegen:    12,
		Attack:       9,
		AttackPeriod: 0.9,
		Crit:         0.1,
		Evasion:      0.05,
		Preferred:    []Branch{BranchAttack, BranchMana},
		Abilities: []Factory{
			NewAttack,
			func() Effect { return NewDamageBeam(2) },
			NewRegenMana,
		},
	}
}

// Pyromancer: charges a cube of 27 fires.
func Pyromancer() *Hero {
	return &Hero{
		ID:           "pyro",
		Name:         "Pyromancer",
		Description:  "Gathers fires as mana grows and releases them all at once.",
		HP:           900,
		ManaRegen:    10,
		Attack:       8,
		AttackPeriod: 1.0,
		Crit:         0.05,
		Evasion:      0.05,
		Preferred:    []Branch{BranchMana, BranchCrit},
		Abilities: []Factory{
			NewAttack,
			NewFireCube,
			NewRegenMana,
		},
	}
}

// SwiborgCommander: spawns swiborgs every 20 mana.
func SwiborgCommander() *Hero {
	return &Hero{
		ID:           "swiborg",
		Name:         "Swiborg Commander",
		Description:  "Builds a squad of swiborgs and launches them in sequence.",
		HP:           1000,
		ManaRegen:    14,
		Attack:       7,
		AttackPeriod: 0.8,
		Crit:         0.05,
		Evasion:      0.1,
		Preferred:    []Branch{BranchAttack, BranchEvasion},
		Abilities: []Factory{
			NewAttack,
			NewStarWars,
			NewRegenMana,
		},
	}
}

// Reaper: halves everyone's hp.
func Reaper() *Hero {
	return &Hero{
		ID:           "reaper",
		Name:         "Reaper",
		Description:  "A tank that cuts both fighters' health in half.",
		HP:           1200,
		ManaRegen:    8,
		Attack:       10,
		AttackPeriod: 1.2,
		Crit:         0.1,
		Preferred:    []Branch{BranchHp, BranchCrit},
		Abilities: []Factory{
			NewAttack,
			NewHalve,
			NewRegenMana,
		},
	}
}

// Duelist: fast crits and dodges with a light beam.
func Duelist() *Hero {
	return &Hero{
		ID:           "duelist",
		Name:         "Duelist",
		Description:  "Relies on crits and evasion, with a weak beam as backup.",
		HP:           1000,
		ManaRegen:    6,
		Attack:       11,
		AttackPeriod: 0.8,
		Crit:         0.15,
		Evasion:      0.15,
		Preferred:    []Branch{BranchCrit, BranchEvasion},
		Abilities: []Factory{
			NewAttack,
			func() Effect { return NewDamageBeam(1) },
			NewRegenMana,
		},
	}
}

// HeroRegistry maps hero IDs to their constructor functions.
var HeroRegistry = map[string]func() *Hero{
	"medic":   FieldMedic,
	"striker": BeamStriker,
	"pyro":    Pyromancer,
	"swiborg": SwiborgCommander,
	"reaper":  Reaper,
	"duelist": Duelist,
}

// LookupHero looks up a hero by ID and returns a new instance.
// Panics if the hero is not found.
func LookupHero(id string) *Hero {
	ctor, ok := HeroRegistry[id]
	if !ok {
		panic(fmt.Sprintf("hero not found in registry: %q", id))
	}
	return ctor()
}

// HeroIDs returns the registered hero IDs in sorted order.
func HeroIDs() []string {
	ids := make([]string, 0, len(HeroRegistry))
	for id := range HeroRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
