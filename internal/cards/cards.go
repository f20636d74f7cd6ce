package cards

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peterkuimelis/autoduel/internal/fight"
)

// MaxLevel is the level cap shared by every card type.
const MaxLevel = 5

// Type is the immutable descriptor of a purchasable card.
type Type struct {
	ID          string
	Name        string
	Description string
	Branches    []fight.Branch
	MaxLevel    int
	Cost        int
	Levels      [5]float64 // effect parameter per level
	New         func(v float64) fight.Effect
}

// Effect instantiates the card's effect at the given level.
func (t *Type) Effect(level int) fight.Effect {
	return t.New(fight.LevelValue(t.Levels, level))
}

// Card is a concrete copy of a card type at some level.
type Card struct {
	ID          string
	Name        string
	Description string
	Branches    []fight.Branch
	Level       int
	MaxLevel    int
	Cost        int
}

// Equal compares by id, level and max level.
func (c *Card) Equal(o *Card) bool {
	return c.ID == o.ID && c.Level == o.Level && c.MaxLevel == o.MaxLevel
}

// AtMax reports whether the card cannot be leveled further.
func (c *Card) AtMax() bool {
	return c.Level >= c.MaxLevel
}

// Type returns the card's descriptor.
func (c *Card) Type() *Type {
	return LookupType(c.ID)
}

// Effect instantiates the card's effect at its current level.
func (c *Card) Effect() fight.Effect {
	return c.Type().Effect(c.Level)
}

// Factory returns a constructor for the card's effect, bound to the current level.
func (c *Card) Factory() fight.Factory {
	t, level := c.Type(), c.Level
	return func() fight.Effect { return t.Effect(level) }
}

// Value returns the level parameter of the card's effect.
func (c *Card) Value() float64 {
	return fight.LevelValue(c.Type().Levels, c.Level)
}

// Clone returns an independent copy.
func (c *Card) Clone() *Card {
	cp := *c
	cp.Branches = append([]fight.Branch(nil), c.Branches...)
	return &cp
}

func (c *Card) String() string {
	return fmt.Sprintf("%s L%d", c.Name, c.Level)
}

// BranchList renders the card's branches as "Attack/Crit".
func (c *Card) BranchList() string {
	parts := make([]string, len(c.Branches))
	for i, b := range c.Branches {
		parts[i] = b.String()
	}
	return strings.Join(parts, "/")
}

func def(id, name, desc string, cost int, base float64, ctor func(float64) fight.Effect, branches ...fight.Branch) *Type {
	return &Type{
		ID:          id,
		Name:        name,
		Description: desc,
		Branches:    branches,
		MaxLevel:    MaxLevel,
		Cost:        cost,
		Levels:      fight.LevelTable(base),
		New:         ctor,
	}
}

// Registry maps card ids to their descriptors.
var Registry = map[string]*Type{}

func register(types ...*Type) {
	for _, t := range types {
		Registry[t.ID] = t
	}
}

func init() {
	register(
		def("increase_attack", "Increase Attack", "+attack while the card is held.",
			100, 2, newIncreaseAttack, fight.BranchAttack),
		def("combat_medkit", "Combat Medkit", "+attack for every 400 hp lost.",
			120, 1, newCombatMedkit, fight.BranchAttack, fight.BranchHp),
		def("healing_flow", "Healing Flow", "Heals every second.",
			100, 8, newHealingFlow, fight.BranchRegen),
		def("healing_drone", "Healing Drone", "Every two seconds heals a percentage of hp lost.",
			140, 2, newHealingDrone, fight.BranchRegen, fight.BranchHp),
		def("energy_source", "Energy Source", "60% chance to heal after a basic attack.",
			120, 10, newEnergySource, fight.BranchRegen, fight.BranchAttack),
		def("plasma_strike", "Plasma Strike", "60% chance to gain mana after a basic attack.",
			120, 5, newPlasmaStrike, fight.BranchMana, fight.BranchAttack),
		def("lucky_bullet", "Lucky Bullet", "Extra damage after a critical hit.",
			110, 10, newLuckyBullet, fight.BranchCrit),
		def("plasma_charge", "Plasma Charge", "Gain mana after a critical hit.",
			110, 5, newPlasmaCharge, fight.BranchCrit, fight.BranchMana),
		def("agility_capsule", "Agility Capsule", "Heal after evading a hit.",
			110, 10, newAgilityCapsule, fight.BranchEvasion, fight.BranchRegen),
		def("shadow_caster", "Shadow Caster", "Strike back after evading a hit.",
			110, 8, newShadowCaster, fight.BranchEvasion),
		def("precision_hit", "Precision Hit", "Each basic attack adds a crit stack for 3s, up to 5.",
			130, 0.01, newPrecisionHit, fight.BranchCrit, fight.BranchAttack),
		def("shooter_luck", "Shooter Luck", "Each critical hit adds an evasion stack for 4s, up to 3.",
			130, 0.01, newShooterLuck, fight.BranchEvasion, fight.BranchCrit),
		def("mana_crystal", "Mana Crystal", "+ultimate amplification.",
			150, 0.05, newManaCrystal, fight.BranchMana),
		def("life_symbiosis", "Life Symbiosis", "+ultimate amplification the lower your hp.",
			150, 0.1, newLifeSymbiosis, fight.BranchMana, fight.BranchHp),
		def("energy_drain", "Energy Drain", "-enemy ultimate amplification.",
			150, 0.04, newEnergyDrain, fight.BranchMana),
		def("exhaustion", "Exhaustion", "Chance to cancel each enemy heal.",
			140, 0.08, newExhaustion, fight.BranchRegen),
		def("illness", "Illness", "-enemy max hp.",
			120, 20, newIllness, fight.BranchHp),
		def("life_essence", "Life Essence", "+max hp.",
			100, 25, newLifeEssence, fight.BranchHp),
	)
}

// LookupType returns the descriptor for id.
// Panics if the id is not registered.
func LookupType(id string) *Type {
	t, ok := Registry[id]
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", id))
	}
	return t
}

// New returns a card of the given type and level.
// Panics on unknown ids or levels outside [1, max level].
func New(id string, level int) *Card {
	t := LookupType(id)
	if level < 1 || level > t.MaxLevel {
		panic(fmt.Sprintf("card %q: level %d out of range", id, level))
	}
	return &Card{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Branches:    append([]fight.Branch(nil), t.Branches...),
		Level:       level,
		MaxLevel:    t.MaxLevel,
		Cost:        t.Cost,
	}
}

// IDs returns the registered card ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(Registry))
	for id := range Registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BranchCounts tallies branch tags across a loadout.
func BranchCounts(loadout []*Card) map[fight.Branch]int {
	counts := make(map[fight.Branch]int)
	for _, c := range loadout {
		for _, b := range c.Branches {
			counts[b]++
		}
	}
	return counts
}

// Loadout assembles the fight inputs for a hero carrying the given cards.
func Loadout(hero *fight.Hero, loadout []*Card) fight.Loadout {
	extra := make([]fight.Factory, 0, len(loadout))
	for _, c := range loadout {
		extra = append(extra, c.Factory())
	}
	return fight.Loadout{
		Hero:     hero,
		Branches: fight.BranchBonuses(BranchCounts(loadout)),
		Extra:    extra,
	}
}
