package net

import (
	"context"
	"io"
	"math/rand"
	"net"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/log"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

func newTestBattle(n int) *tournament.Battle {
	players := tournament.RandomRoster(n, rand.New(rand.NewSource(3)))
	return tournament.New(tournament.Config{Players: players, Seed: 7})
}

func TestStateViewHidesOtherShops(t *testing.T) {
	b := newTestBattle(3)
	sv := BuildStateView(b, 1)

	if sv.You.ID != 1 {
		t.Fatalf("you = seat %d, want 1", sv.You.ID)
	}
	if len(sv.You.Reserved) != tournament.ReservedSlots {
		t.Errorf("reserved = %d, want %d", len(sv.You.Reserved), tournament.ReservedSlots)
	}
	if len(sv.Others) != 2 {
		t.Fatalf("others = %d, want 2", len(sv.Others))
	}
	for _, o := range sv.Others {
		if o.Reserved != nil || o.Cards != nil {
			t.Errorf("seat %d leaks its shop or loadout", o.ID)
		}
	}
	if sv.Tournament != b.ID {
		t.Errorf("tournament id = %q, want %q", sv.Tournament, b.ID)
	}
}

func TestSnapshotViewWinner(t *testing.T) {
	lo := fight.Loadout{Hero: fight.LookupHero("striker")}
	c := fight.Run(lo, fight.Loadout{Hero: fight.LookupHero("medic")}, rand.New(rand.NewSource(1)))

	first := SnapshotViewOf(c.Snapshots()[0])
	if first.Winner != nil {
		t.Errorf("t=0 snapshot has winner %d", *first.Winner)
	}
	last := SnapshotViewOf(c.Last())
	if last.Winner == nil {
		t.Fatal("final snapshot has no winner")
	}
	side, _ := c.Winner()
	if *last.Winner != int(side) {
		t.Errorf("winner = %d, want %d", *last.Winner, side)
	}
	if last.Fighters[0].Hero == "" || last.Fighters[1].Hero == "" {
		t.Error("fighter views missing hero names")
	}
}

func TestResultViewsSkip(t *testing.T) {
	b := newTestBattle(3)
	results, err := b.RunRound(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	views := ResultViews(b, results)
	var fights, skips int
	for _, v := range views {
		switch v.Kind {
		case "Fight":
			fights++
			if len(v.Stats) != 2 || v.Winner == "" {
				t.Errorf("fight view incomplete: %+v", v)
			}
		case "Skip":
			skips++
			if v.Player2 != "" || v.Winner != "" {
				t.Errorf("skip view has opponent: %+v", v)
			}
		}
	}
	if fights != 1 || skips != 1 {
		t.Errorf("fights=%d skips=%d, want 1 and 1", fights, skips)
	}
}

func TestControllerOverPipe(t *testing.T) {
	b := newTestBattle(2)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()

	var out strings.Builder
	client := &Client{conn: clientConn, playerName: "A", in: strings.NewReader("1\n"), out: &out}
	done := make(chan error, 1)
	go func() { done <- client.RunREPL(context.Background()) }()

	ctx := context.Background()
	nc := NewNetworkController(serverConn, 0)
	actions := b.ShopActions(0)
	got, err := nc.ChooseShopAction(ctx, b, 0, actions)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != actions[0].Type || got.Slot != actions[0].Slot {
		t.Errorf("chose %+v, want %+v", got, actions[0])
	}

	if err := nc.Notify(ctx, log.NewLockEvent(b.Round, true)); err != nil {
		t.Fatal(err)
	}
	results, err := b.RunRound(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := nc.RoundResult(ctx, b, 0, results); err != nil {
		t.Fatal(err)
	}
	if err := nc.SendTournamentOver(0, "A is the champion!"); err != nil {
		t.Fatal(err)
	}
	if err := <-done; err != nil {
		t.Fatalf("REPL: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Actions:", "Results:", "TOURNAMENT OVER", "A is the champion!"} {
		if !strings.Contains(text, want) {
			t.Errorf("client output missing %q", want)
		}
	}
}

func TestControllerEndOfInputEndsShop(t *testing.T) {
	b := newTestBattle(2)
	serverConn, clientConn := net.Pipe()
	defer serverConn.Close()
	defer clientConn.Close()

	client := &Client{conn: clientConn, in: strings.NewReader(""), out: io.Discard}
	go func() { _ = client.RunREPL(context.Background()) }()

	nc := NewNetworkController(serverConn, 0)
	got, err := nc.ChooseShopAction(context.Background(), b, 0, b.ShopActions(0))
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != tournament.ShopDone {
		t.Errorf("got %v, want Done", got.Type)
	}
}

func TestServerSeats(t *testing.T) {
	s := &Server{Players: 4, HostName: "Host", HostHero: "medic", Seed: 5, Log: zerolog.Nop()}
	players, err := s.seat(ClientMessage{Type: "join", Name: "Guest", Hero: "striker"})
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 4 {
		t.Fatalf("seats = %d, want 4", len(players))
	}
	if players[0].Name != "Host" || players[0].AI || players[0].Hero.ID != "medic" {
		t.Errorf("host seat = %+v", players[0])
	}
	if players[1].Name != "Guest" || players[1].AI || players[1].Hero.ID != "striker" {
		t.Errorf("joiner seat = %+v", players[1])
	}
	for _, p := range players[2:] {
		if !p.AI {
			t.Errorf("seat %s should be AI", p.Name)
		}
	}

	if _, err := s.seat(ClientMessage{Type: "join", Hero: "nobody"}); err == nil {
		t.Error("unknown hero accepted")
	}
}
