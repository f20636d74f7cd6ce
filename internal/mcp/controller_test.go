package mcp

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/peterkuimelis/autoduel/internal/tournament"
)

func TestShopActionCanceledWhileQueueFull(t *testing.T) {
	sess := &TournamentSession{pendingCh: make(chan *PendingDecision)}
	ctrl := NewMCPController(0, sess)
	b := tournament.New(tournament.Config{Players: tournament.RandomRoster(2, rand.New(rand.NewSource(1))), Seed: 1})
	actions := []tournament.ShopAction{{Type: tournament.ShopDone, Desc: "Done"}}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := ctrl.ChooseShopAction(ctx, b, 0, actions)
		errc <- err
	}()

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ChooseShopAction stayed blocked on a full pending queue")
	}
}

func TestShopActionAnswered(t *testing.T) {
	sess := &TournamentSession{pendingCh: make(chan *PendingDecision, 1)}
	ctrl := NewMCPController(0, sess)
	b := tournament.New(tournament.Config{Players: tournament.RandomRoster(2, rand.New(rand.NewSource(1))), Seed: 1})
	actions := []tournament.ShopAction{
		{Type: tournament.ShopReroll, Desc: "Reroll"},
		{Type: tournament.ShopDone, Desc: "Done"},
	}

	go func() {
		p := <-sess.pendingCh
		if p.Type == DecisionShopAction && len(p.Actions) == 2 {
			ctrl.responseCh <- 0
		} else {
			ctrl.responseCh <- -1
		}
	}()

	got, err := ctrl.ChooseShopAction(context.Background(), b, 0, actions)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != tournament.ShopReroll {
		t.Errorf("chose %+v, want the reroll", got)
	}
}
