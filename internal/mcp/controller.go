package mcp

import (
	"context"

	adnet "github.com/peterkuimelis/autoduel/internal/net"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

// MCPController implements tournament.Controller by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *TournamentSession
	responseCh chan int
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *TournamentSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan int),
	}
}

// ChooseShopAction implements tournament.Controller.
func (c *MCPController) ChooseShopAction(ctx context.Context, b *tournament.Battle, player int, actions []tournament.ShopAction) (tournament.ShopAction, error) {
	done := tournament.ShopAction{Type: tournament.ShopDone}
	if len(actions) == 0 {
		return done, nil
	}

	pending := &PendingDecision{
		Type:    DecisionShopAction,
		Player:  player,
		State:   adnet.BuildStateView(b, player),
		Actions: adnet.ActionViews(actions),
		actions: actions,
	}
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return done, ctx.Err()
	}

	select {
	case idx := <-c.responseCh:
		if idx < 0 || idx >= len(actions) {
			return done, nil
		}
		return actions[idx], nil
	case <-ctx.Done():
		return done, ctx.Err()
	}
}

// RoundResult implements tournament.Controller. Results are kept for the
// next tool response and for fight_window.
func (c *MCPController) RoundResult(ctx context.Context, b *tournament.Battle, player int, results []tournament.RoundCapture) error {
	c.session.recordRound(b, results)
	return nil
}
