package tournament

import (
	"math/rand"

	"github.com/peterkuimelis/autoduel/internal/cards"
)

// Pool is the shared stock of cards the shop deals from.
type Pool struct {
	cards []*cards.Card
	rng   *rand.Rand
}

// NewPool seeds players x max level level-1 copies of every registered card type.
func NewPool(players int, rng *rand.Rand) *Pool {
	p := &Pool{rng: rng}
	for _, id := range cards.IDs() {
		t := cards.LookupType(id)
		for i := 0; i < players*t.MaxLevel; i++ {
			p.cards = append(p.cards, cards.New(id, 1))
		}
	}
	return p
}

// Len returns the number of cards in the pool.
func (p *Pool) Len() int {
	return len(p.cards)
}

// Count returns the number of copies of id left in the pool.
func (p *Pool) Count(id string) int {
	n := 0
	for _, c := range p.cards {
		if c.ID == id {
			n++
		}
	}
	return n
}

// Take deals up to n cards with distinct ids, skipping ids the player already
// owns at max level. Dealt cards leave the pool.
func (p *Pool) Take(pl *Player, n int) []*cards.Card {
	p.rng.Shuffle(len(p.cards), func(i, j int) {
		p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
	})

	chosen := make([]*cards.Card, 0, n)
	seen := make(map[string]bool, n)
	kept := p.cards[:0]
	for _, c := range p.cards {
		if len(chosen) < n && !seen[c.ID] && !pl.OwnsAtMax(c.ID) {
			seen[c.ID] = true
			chosen = append(chosen, c)
			continue
		}
		kept = append(kept, c)
	}
	p.cards = kept
	return chosen
}

// Refill returns cards to the pool.
func (p *Pool) Refill(cs ...*cards.Card) {
	p.cards = append(p.cards, cs...)
}

// RerollFree returns the player's unsold reserved cards to the pool and deals
// a fresh set of ReservedSlots cards. Sold slots are dropped: their cards
// already live in the player's loadout.
func (p *Pool) RerollFree(pl *Player) {
	for _, s := range pl.Reserved {
		if s.Active {
			p.Refill(s.Card)
		}
	}
	dealt := p.Take(pl, ReservedSlots)
	pl.Reserved = make([]Slot, len(dealt))
	for i, c := range dealt {
		pl.Reserved[i] = Slot{Active: true, Card: c}
	}
}

// withdraw removes up to n copies of id, returning how many were removed.
func (p *Pool) withdraw(id string, n int) int {
	removed := 0
	kept := p.cards[:0]
	for _, c := range p.cards {
		if removed < n && c.ID == id {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	p.cards = kept
	return removed
}
