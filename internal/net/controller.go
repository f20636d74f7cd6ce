package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/autoduel/internal/log"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

// NetworkController implements tournament.Controller over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // seat this controller decides for
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// Player returns the seat this controller plays.
func (nc *NetworkController) Player() int {
	return nc.player
}

// Close closes the underlying connection.
func (nc *NetworkController) Close() error {
	return nc.conn.Close()
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseShopAction implements tournament.Controller.
func (nc *NetworkController) ChooseShopAction(ctx context.Context, b *tournament.Battle, player int, actions []tournament.ShopAction) (tournament.ShopAction, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	done := tournament.ShopAction{Type: tournament.ShopDone}
	if len(actions) == 0 {
		return done, nil
	}
	msg := ServerMessage{
		Type:    "choose_shop_action",
		Actions: ActionViews(actions),
		State:   BuildStateView(b, player),
	}
	if err := nc.send(msg); err != nil {
		return done, fmt.Errorf("send choose_shop_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return done, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return done, nil // out of range ends the shop phase
	}
	return actions[resp.Index], nil
}

// RoundResult implements tournament.Controller.
func (nc *NetworkController) RoundResult(ctx context.Context, b *tournament.Battle, player int, results []tournament.RoundCapture) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:    "round_result",
		Results: ResultViews(b, results),
		State:   BuildStateView(b, player),
	}
	if err := nc.send(msg); err != nil {
		return fmt.Errorf("send round_result: %w", err)
	}
	return nil
}

// SendTournamentOver sends a tournament_over message to the client.
func (nc *NetworkController) SendTournamentOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "tournament_over", Winner: winner, Result: result})
}

// Notify forwards a logged event to the client.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "notify", Event: EventViewOf(event)})
}

// broadcastLogger logs through an inner logger and forwards every event to
// the connected clients. Send failures are ignored; the next decision
// request surfaces a broken connection.
type broadcastLogger struct {
	log.EventLogger
	ctx   context.Context
	ctrls []*NetworkController
}

// NewBroadcastLogger wraps inner so every event is also sent to ctrls.
func NewBroadcastLogger(ctx context.Context, inner log.EventLogger, ctrls ...*NetworkController) log.EventLogger {
	return &broadcastLogger{EventLogger: inner, ctx: ctx, ctrls: ctrls}
}

func (l *broadcastLogger) Log(event log.GameEvent) {
	l.EventLogger.Log(event)
	for _, c := range l.ctrls {
		_ = c.Notify(l.ctx, event)
	}
}
