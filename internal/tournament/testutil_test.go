package tournament

import (
	"context"
	"math/rand"
	"testing"

	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/log"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// newTestBattle seats n players on the given heroes (cycled) with a fixed seed.
func newTestBattle(t *testing.T, n int, heroes ...string) (*Battle, *log.MemoryLogger) {
	t.Helper()
	if len(heroes) == 0 {
		heroes = []string{"medic", "striker"}
	}
	players := make([]*Player, n)
	for i := range players {
		players[i] = NewPlayer(i, string(rune('A'+i)), fight.LookupHero(heroes[i%len(heroes)]))
	}
	logger := log.NewMemoryLogger()
	return New(Config{Players: players, Logger: logger, Seed: 42}), logger
}

// totalCopies counts every card copy in circulation: pool, loadout levels and unsold offers.
func totalCopies(b *Battle) int {
	n := b.Pool.Len()
	for _, p := range b.Players {
		n += p.Copies() + p.ActiveSlots()
	}
	return n
}

func initialCopies(players int) int {
	return len(cards.Registry) * players * cards.MaxLevel
}

// ScriptedController is a Controller that follows a predefined list of shop actions.
// Unscripted decisions end the shop phase.
type ScriptedController struct {
	t       *testing.T
	actions []ShopAction
	pos     int
	rounds  [][]RoundCapture
}

func NewScriptedController(t *testing.T) *ScriptedController {
	return &ScriptedController{t: t}
}

func (sc *ScriptedController) AddBuy(slot int) *ScriptedController {
	sc.actions = append(sc.actions, ShopAction{Type: ShopBuy, Slot: slot})
	return sc
}

func (sc *ScriptedController) AddAction(typ ShopActionType) *ScriptedController {
	sc.actions = append(sc.actions, ShopAction{Type: typ})
	return sc
}

func (sc *ScriptedController) ChooseShopAction(_ context.Context, _ *Battle, _ int, _ []ShopAction) (ShopAction, error) {
	if sc.pos >= len(sc.actions) {
		return ShopAction{Type: ShopDone}, nil
	}
	a := sc.actions[sc.pos]
	sc.pos++
	return a, nil
}

func (sc *ScriptedController) RoundResult(_ context.Context, _ *Battle, _ int, results []RoundCapture) error {
	sc.rounds = append(sc.rounds, results)
	return nil
}
