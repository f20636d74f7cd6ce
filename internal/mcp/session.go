package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	stdnet "net"

	"github.com/peterkuimelis/autoduel/internal/log"
	adnet "github.com/peterkuimelis/autoduel/internal/net"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

// DecisionType identifies what the tournament is waiting for.
type DecisionType string

const (
	DecisionShopAction     DecisionType = "choose_shop_action"
	DecisionTournamentOver DecisionType = "tournament_over"
)

// PendingDecision represents a decision the tournament is waiting for.
type PendingDecision struct {
	Type    DecisionType
	Player  int
	State   *adnet.StateView
	Actions []adnet.ActionView

	actions []tournament.ShopAction
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events         []adnet.EventView `json:"events"`
	Rounds         []RoundView       `json:"rounds,omitempty"`
	State          *adnet.StateView  `json:"state,omitempty"`
	Pending        *PendingView      `json:"pending,omitempty"`
	TournamentOver bool              `json:"tournament_over"`
	Champion       string            `json:"champion,omitempty"`
	Result         string            `json:"result,omitempty"`
	Port           string            `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type    DecisionType       `json:"type"`
	Actions []adnet.ActionView `json:"actions,omitempty"`
}

// RoundView lists the pairings of one fought round.
type RoundView struct {
	Round   int                `json:"round"`
	Results []adnet.ResultView `json:"results"`
}

// roundRecord keeps a round's captures for fight_window.
type roundRecord struct {
	round   int
	results []tournament.RoundCapture
}

// SessionConfig describes a tournament for the agent to play.
type SessionConfig struct {
	Name         string
	Hero         string // hero id for the agent's seat; roster hero when empty
	Players      int    // seats for a random roster
	Seed         int64
	RosterFile   string
	RosterNumber int // 0 = random roster
	MaxRounds    int
	HumanPort    string // when set, seat 1 waits for a human over TCP
}

// TournamentSession holds the state of a single MCP tournament.
type TournamentSession struct {
	battle      *tournament.Battle
	agentCtrl   *MCPController
	humanCtrl   *adnet.NetworkController
	agentPlayer int
	listener    stdnet.Listener

	events *log.MemoryLogger
	seen   int

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision
	cancel         context.CancelFunc

	mu       sync.Mutex
	rounds   []roundRecord
	unsent   []RoundView
	over     bool
	champion string
	result   string
}

// NewTournamentSession seats the agent in seat 0, optionally waits for a
// human to join seat 1, fills the rest with AI and starts the tournament.
func NewTournamentSession(cfg SessionConfig) (*TournamentSession, error) {
	players, err := seatPlayers(cfg)
	if err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "Agent"
	}
	if err := adnet.HumanSeat(players[0], name, cfg.Hero); err != nil {
		return nil, fmt.Errorf("agent seat: %w", err)
	}

	sess := &TournamentSession{
		events:    log.NewMemoryLogger(),
		pendingCh: make(chan *PendingDecision, 2), // room for a final tournament_over
	}
	sess.agentCtrl = NewMCPController(sess.agentPlayer, sess)

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	var logger log.EventLogger = sess.events
	controllers := map[int]tournament.Controller{sess.agentPlayer: sess.agentCtrl}

	if cfg.HumanPort != "" {
		ln, err := stdnet.Listen("tcp", ":"+cfg.HumanPort)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("listen on port %s: %w", cfg.HumanPort, err)
		}
		// Blocks until the human runs `autoduel-cli join`
		nc, join, err := adnet.AcceptJoiner(ln, 1)
		if err != nil {
			ln.Close()
			cancel()
			return nil, err
		}
		if err := adnet.HumanSeat(players[1], join.Name, join.Hero); err != nil {
			nc.Close()
			ln.Close()
			cancel()
			return nil, fmt.Errorf("human seat: %w", err)
		}
		sess.listener = ln
		sess.humanCtrl = nc
		controllers[1] = nc
		logger = adnet.NewBroadcastLogger(ctx, sess.events, nc)
	}

	sess.battle = tournament.New(tournament.Config{Players: players, Logger: logger, Seed: cfg.Seed})
	session := &tournament.Session{Battle: sess.battle, Controllers: controllers, MaxRounds: cfg.MaxRounds}

	go func() {
		champ, err := session.Run(ctx)

		winner, result := -1, fmt.Sprintf("No champion after %d rounds", sess.battle.Round-1)
		switch {
		case err != nil:
			result = fmt.Sprintf("error: %v", err)
		case champ != nil:
			winner, result = champ.ID, fmt.Sprintf("%s (%s) is the champion!", champ.Name, champ.Hero.Name)
		}

		if sess.humanCtrl != nil {
			_ = sess.humanCtrl.SendTournamentOver(winner, result)
			sess.humanCtrl.Close()
			sess.listener.Close()
		}

		sess.mu.Lock()
		sess.over = true
		if champ != nil {
			sess.champion = champ.Name
		}
		sess.result = result
		sess.mu.Unlock()

		sess.pendingCh <- &PendingDecision{
			Type:   DecisionTournamentOver,
			Player: winner,
			State:  adnet.BuildStateView(sess.battle, sess.agentPlayer),
		}
	}()

	return sess, nil
}

func seatPlayers(cfg SessionConfig) ([]*tournament.Player, error) {
	var players []*tournament.Player
	if cfg.RosterNumber > 0 {
		_, ps, err := tournament.RosterByNumber(cfg.RosterFile, cfg.RosterNumber)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		players = ps
	} else {
		players = tournament.RandomRoster(max(cfg.Players, 2), rand.New(rand.NewSource(cfg.Seed)))
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("roster has %d seats, need at least 2", len(players))
	}
	return players, nil
}

// Close stops the tournament goroutine if it is still waiting on the agent.
func (s *TournamentSession) Close() {
	s.cancel()
}

// recordRound stores a round's captures. Called from the tournament goroutine.
func (s *TournamentSession) recordRound(b *tournament.Battle, results []tournament.RoundCapture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, roundRecord{round: b.Round, results: results})
	s.unsent = append(s.unsent, RoundView{Round: b.Round, Results: adnet.ResultViews(b, results)})
}

// capture finds a fought pairing by round number and result index.
func (s *TournamentSession) capture(round, index int) (tournament.RoundCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rounds {
		if r.round != round {
			continue
		}
		if index < 0 || index >= len(r.results) {
			return tournament.RoundCapture{}, fmt.Errorf("round %d has %d results", round, len(r.results))
		}
		rc := r.results[index]
		if rc.Kind != tournament.CaptureFight {
			return tournament.RoundCapture{}, fmt.Errorf("result %d of round %d is a skip", index, round)
		}
		return rc, nil
	}
	return tournament.RoundCapture{}, fmt.Errorf("round %d has not been fought", round)
}

// drainEvents returns the events logged since the last drain.
func (s *TournamentSession) drainEvents() []adnet.EventView {
	evs := s.events.Since(s.seen)
	views := make([]adnet.EventView, 0, len(evs))
	for _, e := range evs {
		views = append(views, *adnet.EventViewOf(e))
		s.seen = e.Seq
	}
	return views
}

func (s *TournamentSession) drainRounds() []RoundView {
	s.mu.Lock()
	defer s.mu.Unlock()
	rounds := s.unsent
	s.unsent = nil
	return rounds
}

// waitForPending blocks until the next decision arrives from the tournament,
// then builds a ToolResponse with accumulated events and the pending decision.
func (s *TournamentSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending
	return s.response(), nil
}

// poll picks up a decision that arrived after a waiting tool call gave up.
func (s *TournamentSession) poll() {
	select {
	case p := <-s.pendingCh:
		s.currentPending = p
	default:
	}
}

// response describes the current pending decision without waiting.
func (s *TournamentSession) response() *ToolResponse {
	resp := &ToolResponse{
		Events: s.drainEvents(),
		Rounds: s.drainRounds(),
	}
	pending := s.currentPending
	if pending == nil {
		return resp
	}
	resp.State = pending.State

	if pending.Type == DecisionTournamentOver {
		s.mu.Lock()
		resp.TournamentOver = true
		resp.Champion = s.champion
		resp.Result = s.result
		s.mu.Unlock()
		return resp
	}
	resp.Pending = &PendingView{Type: pending.Type, Actions: pending.Actions}
	return resp
}

// respondJSON marshals a value to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
