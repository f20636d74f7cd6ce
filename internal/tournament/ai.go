package tournament

// Auto-buy thresholds.
const (
	AIBuyAbove    = 1100
	AIRerollAbove = 1120
	// chance to buy a card sharing no branch with the hero's preferences
	AIOffBranchChance = 0.1
)

// Score counts how many of the card's branches the hero prefers.
func Score(p *Player, slot Slot) int {
	n := 0
	for _, b := range slot.Card.Branches {
		if p.Hero.Prefers(b) {
			n++
		}
	}
	return n
}

// AI shops on behalf of a player: each purchase needs more than AIBuyAbove in
// hand. It buys on-branch offers and occasionally off-branch ones, rerolling
// between passes as long as it stays at or above AIRerollAbove.
func (b *Battle) AI(id int) {
	p := b.Player(id)
	if p == nil {
		return
	}
	for p.Money > AIBuyAbove {
		for i := 0; i < len(p.Reserved); i++ {
			if p.Money <= AIBuyAbove {
				return
			}
			s := p.Reserved[i]
			if !s.Active {
				continue
			}
			chance := 1.0
			if Score(p, s) == 0 {
				chance = AIOffBranchChance
			}
			if b.rng.Float64() < chance {
				b.BuyCard(id, i)
			}
		}
		if p.Money < AIRerollAbove || !b.Reroll(id) {
			return
		}
	}
}
