package tournament

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/autoduel/internal/log"
)

// ShopActionType enumerates what a player may do during the shop phase.
type ShopActionType int

const (
	ShopBuy ShopActionType = iota
	ShopReroll
	ShopLock
	ShopUnlock
	ShopDone
)

func (t ShopActionType) String() string {
	switch t {
	case ShopBuy:
		return "Buy"
	case ShopReroll:
		return "Reroll"
	case ShopLock:
		return "Lock"
	case ShopUnlock:
		return "Unlock"
	case ShopDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// ShopAction is a single shop decision. Slot is used by ShopBuy.
type ShopAction struct {
	Type ShopActionType
	Slot int
	Desc string
}

// ShopActions lists every action currently available to a player.
func (b *Battle) ShopActions(id int) []ShopAction {
	p := b.Player(id)
	if p == nil {
		return nil
	}
	var out []ShopAction
	for i, s := range p.Reserved {
		if !s.Active || p.Money < s.Card.Cost || p.OwnsAtMax(s.Card.ID) {
			continue
		}
		verb := "Buy"
		if p.Owned(s.Card.ID) != nil {
			verb = "Level up"
		}
		out = append(out, ShopAction{Type: ShopBuy, Slot: i,
			Desc: fmt.Sprintf("%s %s (%d)", verb, s.Card.Name, s.Card.Cost)})
	}
	if p.Money >= RerollCost {
		out = append(out, ShopAction{Type: ShopReroll, Desc: fmt.Sprintf("Reroll (%d)", RerollCost)})
	}
	if b.Locked {
		out = append(out, ShopAction{Type: ShopUnlock, Desc: "Unlock shop"})
	} else {
		out = append(out, ShopAction{Type: ShopLock, Desc: "Lock shop"})
	}
	out = append(out, ShopAction{Type: ShopDone, Desc: "Done"})
	return out
}

// Do performs a shop action. It returns false when the action had no effect.
func (b *Battle) Do(id int, a ShopAction) bool {
	switch a.Type {
	case ShopBuy:
		return b.BuyCard(id, a.Slot)
	case ShopReroll:
		return b.Reroll(id)
	case ShopLock:
		b.SetCardsLocked(true)
		return true
	case ShopUnlock:
		b.SetCardsLocked(false)
		return true
	}
	return false
}

// Controller makes shop decisions for one seat and is told about round results.
// Human players over the network, agents over MCP and the built-in AI all
// implement it.
type Controller interface {
	// ChooseShopAction picks the next shop action. Returning ShopDone ends the phase.
	ChooseShopAction(ctx context.Context, b *Battle, player int, actions []ShopAction) (ShopAction, error)

	// RoundResult reports the captures of a finished round, before rewards are applied.
	RoundResult(ctx context.Context, b *Battle, player int, results []RoundCapture) error
}

// AIController delegates the shop phase to Battle.AI.
type AIController struct{}

func (AIController) ChooseShopAction(_ context.Context, b *Battle, player int, _ []ShopAction) (ShopAction, error) {
	b.AI(player)
	return ShopAction{Type: ShopDone}, nil
}

func (AIController) RoundResult(context.Context, *Battle, int, []RoundCapture) error {
	return nil
}

// MaxShopActions bounds one player's shop phase.
const MaxShopActions = 64

// Session drives a tournament: shop phases through controllers, then rounds
// until one player remains or MaxRounds is reached.
type Session struct {
	Battle      *Battle
	Controllers map[int]Controller // seats without a controller use AIController
	MaxRounds   int                // 0 = no limit
}

func (s *Session) controller(id int) Controller {
	if c, ok := s.Controllers[id]; ok && c != nil {
		return c
	}
	return AIController{}
}

// Run plays the tournament to completion and returns the champion, if any.
func (s *Session) Run(ctx context.Context) (*Player, error) {
	b := s.Battle
	for !b.Finished() {
		if s.MaxRounds > 0 && b.Round > s.MaxRounds {
			break
		}
		if err := s.Step(ctx); err != nil {
			return nil, err
		}
	}
	champ, ok := b.Champion()
	id, name := -1, ""
	if ok {
		id, name = champ.ID, champ.Name
	}
	b.Logger.Log(log.NewTournamentOverEvent(b.Round, id, name))
	return champ, nil
}

// Step runs one shop phase for every live player, one round, and applies it.
func (s *Session) Step(ctx context.Context) error {
	b := s.Battle
	for _, p := range b.Alive() {
		if err := s.shop(ctx, p.ID); err != nil {
			return err
		}
	}

	results, err := b.RunRound(ctx)
	if err != nil {
		return err
	}
	for _, p := range b.Players {
		if err := s.controller(p.ID).RoundResult(ctx, b, p.ID, results); err != nil {
			return fmt.Errorf("notify %s: %w", p.Name, err)
		}
	}
	b.Apply()
	return nil
}

func (s *Session) shop(ctx context.Context, id int) error {
	b := s.Battle
	ctrl := s.controller(id)
	for i := 0; i < MaxShopActions; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := ctrl.ChooseShopAction(ctx, b, id, b.ShopActions(id))
		if err != nil {
			return fmt.Errorf("shop for %s: %w", b.Players[id].Name, err)
		}
		if a.Type == ShopDone {
			return nil
		}
		b.Do(id, a)
	}
	return nil
}
