package tournament

import (
	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
)

// Starting values and limits of the tournament economy.
const (
	StartMoney  = 1000
	StartHP     = 40
	StartAttack = 3
	MaxAttack   = 10

	RerollCost    = 20
	ReservedSlots = 3
)

// Slot is one reserved shop entry. Active means it has not been bought yet.
type Slot struct {
	Active bool
	Card   *cards.Card
}

// Player is a tournament seat.
type Player struct {
	ID       int
	Name     string
	Hero     *fight.Hero
	AI       bool
	Money    int
	Attack   int // grade: damage dealt to a loser's hp, grows with win streaks
	HP       int
	Cards    []*cards.Card
	Reserved []Slot
}

// NewPlayer creates a player with starting money, hp and attack grade.
func NewPlayer(id int, name string, hero *fight.Hero) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Hero:   hero,
		Money:  StartMoney,
		Attack: StartAttack,
		HP:     StartHP,
	}
}

// Alive reports whether the player still takes part in pairings.
func (p *Player) Alive() bool {
	return p.HP > 0
}

// Owned returns the loadout card with the given id, or nil.
func (p *Player) Owned(id string) *cards.Card {
	for _, c := range p.Cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// OwnsAtMax reports whether the player holds id at its max level.
func (p *Player) OwnsAtMax(id string) bool {
	c := p.Owned(id)
	return c != nil && c.AtMax()
}

// ActiveSlots returns the number of reserved entries still for sale.
func (p *Player) ActiveSlots() int {
	n := 0
	for _, s := range p.Reserved {
		if s.Active {
			n++
		}
	}
	return n
}

// Loadout builds the fight inputs for this player's hero and cards.
func (p *Player) Loadout() fight.Loadout {
	return cards.Loadout(p.Hero, p.Cards)
}

// Copies returns how many pool copies the player's loadout accounts for.
// A card at level L fused L copies.
func (p *Player) Copies() int {
	n := 0
	for _, c := range p.Cards {
		n += c.Level
	}
	return n
}
