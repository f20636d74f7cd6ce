package net

import (
	"context"
	"fmt"
	"math/rand"
	"net"

	"github.com/rs/zerolog"

	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/log"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

// Server hosts a tournament with a local player, one TCP joiner and AI seats.
type Server struct {
	Port         string
	RosterFile   string
	RosterNumber int // 1-indexed roster in RosterFile; 0 seats a random roster
	Players      int    // seat count for a random roster
	HostName     string
	HostHero     string // hero id; keeps the roster's hero when empty
	Seed         int64
	MaxRounds    int
	Log          zerolog.Logger
}

// Run starts the server, waits for a client to join, then plays the tournament.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	s.Log.Info().Str("port", s.Port).Msg("waiting for opponent")

	joinerCtrl, join, err := AcceptJoiner(ln, 1)
	if err != nil {
		return err
	}
	defer joinerCtrl.Close()

	s.Log.Info().Str("remote", joinerCtrl.conn.RemoteAddr().String()).Str("name", join.Name).Msg("opponent connected")

	players, err := s.seat(join)
	if err != nil {
		return err
	}
	for _, p := range players {
		s.Log.Info().Int("seat", p.ID).Str("name", p.Name).Str("hero", p.Hero.Name).Bool("ai", p.AI).Msg("seated")
	}

	// Player 0 = host, player 1 = joiner
	hostConn, hostServerConn := net.Pipe()
	defer hostServerConn.Close()
	hostCtrl := NewNetworkController(hostServerConn, 0)

	logger := NewBroadcastLogger(ctx, log.NewMemoryLogger(), hostCtrl, joinerCtrl)

	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, playerName: players[0].Name}
		errCh <- client.RunREPL(ctx)
	}()

	go func() {
		battle := tournament.New(tournament.Config{Players: players, Logger: logger, Seed: s.Seed})
		session := &tournament.Session{
			Battle: battle,
			Controllers: map[int]tournament.Controller{
				0: hostCtrl,
				1: joinerCtrl,
			},
			MaxRounds: s.MaxRounds,
		}
		champ, err := session.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("tournament error: %w", err)
			return
		}

		winner, result := -1, fmt.Sprintf("No champion after %d rounds", battle.Round-1)
		if champ != nil {
			winner, result = champ.ID, fmt.Sprintf("%s (%s) is the champion!", champ.Name, champ.Hero.Name)
		}
		s.Log.Info().Str("tournament", battle.ID).Int("winner", winner).Msg("tournament over")

		_ = joinerCtrl.SendTournamentOver(winner, result)
		_ = hostCtrl.SendTournamentOver(winner, result)
		errCh <- nil
	}()

	return <-errCh
}

// AcceptJoiner accepts one connection, reads its join message and returns a
// controller for the given seat.
func AcceptJoiner(ln net.Listener, seat int) (*NetworkController, ClientMessage, error) {
	conn, err := ln.Accept()
	if err != nil {
		return nil, ClientMessage{}, fmt.Errorf("accept: %w", err)
	}
	nc := NewNetworkController(conn, seat)
	var join ClientMessage
	if err := nc.dec.Decode(&join); err != nil {
		conn.Close()
		return nil, ClientMessage{}, fmt.Errorf("read join message: %w", err)
	}
	if join.Type != "join" {
		conn.Close()
		return nil, ClientMessage{}, fmt.Errorf("expected join message, got %q", join.Type)
	}
	return nc, join, nil
}

// seat builds the player list: host in seat 0, joiner in seat 1, AI elsewhere.
func (s *Server) seat(join ClientMessage) ([]*tournament.Player, error) {
	var players []*tournament.Player
	if s.RosterNumber > 0 {
		name, ps, err := tournament.RosterByNumber(s.RosterFile, s.RosterNumber)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		s.Log.Info().Str("roster", name).Msg("roster loaded")
		players = ps
	} else {
		n := max(s.Players, 2)
		players = tournament.RandomRoster(n, rand.New(rand.NewSource(s.Seed)))
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least 2 seats, roster has %d", len(players))
	}

	if err := HumanSeat(players[0], s.HostName, s.HostHero); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	if err := HumanSeat(players[1], join.Name, join.Hero); err != nil {
		return nil, fmt.Errorf("joiner: %w", err)
	}
	return players, nil
}

// HumanSeat hands a seat to a human, optionally renaming it and switching hero.
func HumanSeat(p *tournament.Player, name, hero string) error {
	p.AI = false
	if name != "" {
		p.Name = name
	}
	if hero != "" {
		ctor, ok := fight.HeroRegistry[hero]
		if !ok {
			return fmt.Errorf("unknown hero %q", hero)
		}
		p.Hero = ctor()
	}
	return nil
}
