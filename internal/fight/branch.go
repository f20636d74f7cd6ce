package fight

import (
	"fmt"
	"strings"
)

// Branch is a thematic card category used for stat bonuses and AI scoring.
type Branch int

const (
	BranchAttack Branch = iota
	BranchRegen
	BranchHp
	BranchMana
	BranchCrit
	BranchEvasion
)

// AllBranches lists every branch in declaration order.
var AllBranches = []Branch{BranchAttack, BranchRegen, BranchHp, BranchMana, BranchCrit, BranchEvasion}

func (b Branch) String() string {
	switch b {
	case BranchAttack:
		return "Attack"
	case BranchRegen:
		return "Regen"
	case BranchHp:
		return "Hp"
	case BranchMana:
		return "Mana"
	case BranchCrit:
		return "Crit"
	case BranchEvasion:
		return "Evasion"
	default:
		return "Unknown"
	}
}

// ParseBranch parses a branch name case-insensitively.
func ParseBranch(s string) (Branch, error) {
	for _, b := range AllBranches {
		if strings.EqualFold(b.String(), s) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown branch %q", s)
}

// Per-count branch contributions to derived fighter stats.
const (
	attackPerBranch      = 1.0
	attackSpeedPerBranch = 0.1
	regenPerBranch       = 0.5
	maxHPPerBranch       = 50.0
	manaRegenPerBranch   = 0.1
	ultiAmpPerBranch     = 0.2
	critPerBranch        = 1.0 / 300
	evasionPerBranch     = 1.0 / 300
)

// Branches holds the stat bonuses derived once from a player's card branch tallies.
type Branches struct {
	Attack      float64
	AttackSpeed float64
	Regen       float64 // tallied but not applied to any stat
	MaxHP       float64
	ManaRegen   float64
	UltiAmp     float64
	Crit        float64
	Evasion     float64
}

// BranchBonuses converts branch counts into stat bonuses.
func BranchBonuses(counts map[Branch]int) Branches {
	var b Branches
	for br, n := range counts {
		c := float64(n)
		switch br {
		case BranchAttack:
			b.Attack += attackPerBranch * c
			b.AttackSpeed += attackSpeedPerBranch * c
		case BranchRegen:
			b.Regen += regenPerBranch * c
		case BranchHp:
			b.MaxHP += maxHPPerBranch * c
		case BranchMana:
			b.ManaRegen += manaRegenPerBranch * c
			b.UltiAmp += ultiAmpPerBranch * c
		case BranchCrit:
			b.Crit += critPerBranch * c
		case BranchEvasion:
			b.Evasion += evasionPerBranch * c
		}
	}
	return b
}
