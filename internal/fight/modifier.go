package fight

import "fmt"

// --- Enums ---

// Side identifies one of the two fighters in a duel.
type Side int

const (
	Fighter1 Side = iota
	Fighter2
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == Fighter1 {
		return "F1"
	}
	return "F2"
}

// Target is relative to the effect owner.
type Target int

const (
	TargetSelf Target = iota
	TargetEnemy
)

func (t Target) String() string {
	if t == TargetSelf {
		return "self"
	}
	return "enemy"
}

// ValueKind tags how a numeric payload is scaled on application.
type ValueKind int

const (
	Units ValueKind = iota
	Ulti
	Percents // reserved; applied like Units
)

func (v ValueKind) String() string {
	switch v {
	case Units:
		return "units"
	case Ulti:
		return "ulti"
	case Percents:
		return "percents"
	default:
		return "unknown"
	}
}

// Kind is the closed set of modifier payloads.
type Kind int

const (
	AffectHP Kind = iota
	AffectMaxHP
	AffectMana
	AffectAttack
	AffectAttackSpeed
	AffectUltiAmp
	AffectCrit
	AffectEvasion
	AffectHealCancel // takes back hp a heal restored; never evaded, not hp_lost

	// Proc markers carry no numeric effect.
	ProcNormalAttack
	ProcUlti
	ProcRegen
	ProcCrit
	ProcEvasion

	// Cosmetic markers are recorded but never change fighter state.
	SpawnProjectile
	ShootProjectile
)

func (k Kind) String() string {
	switch k {
	case AffectHP:
		return "AffectHP"
	case AffectMaxHP:
		return "AffectMaxHP"
	case AffectMana:
		return "AffectMana"
	case AffectAttack:
		return "AffectAttack"
	case AffectAttackSpeed:
		return "AffectAttackSpeed"
	case AffectUltiAmp:
		return "AffectUltiAmp"
	case AffectCrit:
		return "AffectCrit"
	case AffectEvasion:
		return "AffectEvasion"
	case AffectHealCancel:
		return "AffectHealCancel"
	case ProcNormalAttack:
		return "NormalAttack"
	case ProcUlti:
		return "Ulti"
	case ProcRegen:
		return "Regen"
	case ProcCrit:
		return "Crit"
	case ProcEvasion:
		return "Evasion"
	case SpawnProjectile:
		return "SpawnProjectile"
	case ShootProjectile:
		return "ShootProjectile"
	default:
		return "Unknown"
	}
}

// IsProc reports whether the kind is a proc marker.
func (k Kind) IsProc() bool {
	return k >= ProcNormalAttack && k <= ProcEvasion
}

// IsCosmetic reports whether the kind is a presentation-only marker.
func (k Kind) IsCosmetic() bool {
	return k == SpawnProjectile || k == ShootProjectile
}

// --- Modifier ---

// Modifier is a single atomic change produced by an effect for one tick.
type Modifier struct {
	Kind      Kind
	Target    Target
	ValueKind ValueKind
	Value     float64
	Source    string // effect name, for the viewer
}

func (m Modifier) String() string {
	if m.Kind.IsCosmetic() || (m.Kind.IsProc() && m.Kind != ProcRegen) {
		return fmt.Sprintf("%s(%s)", m.Kind, m.Target)
	}
	return fmt.Sprintf("%s(%s, %.2f %s)", m.Kind, m.Target, m.Value, m.ValueKind)
}

// Applied is a modifier as it was applied by the engine, tagged with its owner.
type Applied struct {
	Owner    Side
	Receiver Side // side the target resolved to
	Modifier Modifier
	Value    float64 // value after ulti amplification
	Evaded   bool
}

// --- Constructors ---

// HPChange adds v to the target's hp; negative values are damage.
func HPChange(target Target, kind ValueKind, v float64, source string) Modifier {
	return Modifier{Kind: AffectHP, Target: target, ValueKind: kind, Value: v, Source: source}
}

// Damage deals v damage to the enemy.
func Damage(v float64, kind ValueKind, source string) Modifier {
	return HPChange(TargetEnemy, kind, -v, source)
}

// Heal restores v hp to the owner.
func Heal(v float64, kind ValueKind, source string) Modifier {
	return HPChange(TargetSelf, kind, v, source)
}

// CancelHeal takes back up to v hp the enemy just healed.
func CancelHeal(v float64, source string) Modifier {
	return Modifier{Kind: AffectHealCancel, Target: TargetEnemy, ValueKind: Units, Value: v, Source: source}
}

// Stat builds an additive stat modifier.
func Stat(k Kind, target Target, v float64, source string) Modifier {
	return Modifier{Kind: k, Target: target, ValueKind: Units, Value: v, Source: source}
}

// Proc builds a proc marker for the owner.
func Proc(k Kind, v float64, source string) Modifier {
	return Modifier{Kind: k, Target: TargetSelf, ValueKind: Units, Value: v, Source: source}
}

// Cosmetic builds a presentation marker.
func Cosmetic(k Kind, source string) Modifier {
	return Modifier{Kind: k, Target: TargetSelf, Source: source}
}
