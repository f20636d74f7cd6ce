package mcp

import (
	"context"
	"strconv"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/autoduel/internal/log"
	adnet "github.com/peterkuimelis/autoduel/internal/net"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

var (
	// toolMu serializes tool calls; the session is single-player.
	toolMu sync.Mutex

	// activeSession is the singleton tournament session (one per stdio process).
	activeSession *TournamentSession

	// lastSession is the most recent finished session, kept for fight_window and get_log.
	lastSession *TournamentSession

	// rosterFile is the path to the rosters YAML file, set by main.
	rosterFile string

	// port is the TCP port for an optional human player, set by main.
	port string
)

// SetRosterFile sets the path to the rosters YAML file.
func SetRosterFile(path string) {
	rosterFile = path
}

// SetPort sets the TCP port for the human player connection.
func SetPort(p string) {
	port = p
}

// RegisterTools adds all tournament tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startTournamentTool(), serialized(handleStartTournament))
	s.AddTool(shopActionTool(), serialized(handleShopAction))
	s.AddTool(buyCardTool(), serialized(handleBuyCard))
	s.AddTool(rerollTool(), serialized(handleReroll))
	s.AddTool(lockShopTool(), serialized(handleLockShop))
	s.AddTool(nextRoundTool(), serialized(handleNextRound))
	s.AddTool(getStateTool(), serialized(handleGetState))
	s.AddTool(fightWindowTool(), serialized(handleFightWindow))
	s.AddTool(getLogTool(), serialized(handleGetLog))
}

func serialized(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		toolMu.Lock()
		defer toolMu.Unlock()
		return h(ctx, request)
	}
}

func finish(sess *TournamentSession) {
	activeSession = nil
	lastSession = sess
	sess.Close()
}

// --- Tool definitions ---

func startTournamentTool() mcp.Tool {
	return mcp.NewTool("start_tournament",
		mcp.WithDescription("Start a new auto-battler tournament. You play seat 0; other seats are AI. "+
			"With human=true a person joins seat 1 via `autoduel-cli join --addr localhost:<port>`, and this call blocks until they connect. "+
			"Returns the initial state and your first shop decision."),
		mcp.WithString("hero", mcp.Description("Hero id for your seat (medic, striker, pyro, swiborg, reaper, duelist). Random when omitted.")),
		mcp.WithString("name", mcp.Description("Display name for your seat")),
		mcp.WithNumber("players", mcp.Description("Number of seats for a random roster"), mcp.DefaultNumber(4), mcp.Min(2)),
		mcp.WithNumber("roster", mcp.Description("Roster number (1-indexed from rosters.yaml); random roster when omitted")),
		mcp.WithNumber("seed", mcp.Description("RNG seed; 0 picks one from the clock")),
		mcp.WithNumber("max_rounds", mcp.Description("Stop after this many rounds; 0 plays until a champion remains")),
		mcp.WithBoolean("human", mcp.Description("Wait for a human player on the TCP port")),
	)
}

func shopActionTool() mcp.Tool {
	return mcp.NewTool("shop_action",
		mcp.WithDescription("Choose any action from the pending shop action list by index."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into pending.actions")),
	)
}

func buyCardTool() mcp.Tool {
	return mcp.NewTool("buy_card",
		mcp.WithDescription("Buy the card in a reserved shop slot. Buying a card you own levels it up."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based reserved slot index")),
	)
}

func rerollTool() mcp.Tool {
	return mcp.NewTool("reroll",
		mcp.WithDescription("Pay to replace your reserved shop cards with fresh draws from the pool."),
	)
}

func lockShopTool() mcp.Tool {
	return mcp.NewTool("lock_shop",
		mcp.WithDescription("Lock or unlock the shop. A locked shop keeps its offers through the end of the round."),
		mcp.WithBoolean("locked", mcp.Required(), mcp.Description("true to lock, false to unlock")),
	)
}

func nextRoundTool() mcp.Tool {
	return mcp.NewTool("next_round",
		mcp.WithDescription("Finish shopping. The round is fought and rewards applied; returns the round results and your next shop decision."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current tournament state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func fightWindowTool() mcp.Tool {
	return mcp.NewTool("fight_window",
		mcp.WithDescription("Inspect a fought pairing: fighter stats at the end of [from, to) and every modifier applied in it, plus whole-fight totals."),
		mcp.WithNumber("round", mcp.Required(), mcp.Description("Round number")),
		mcp.WithNumber("fight", mcp.Required(), mcp.Description("0-based index into that round's results")),
		mcp.WithNumber("from", mcp.Description("Window start in seconds"), mcp.DefaultNumber(0)),
		mcp.WithNumber("to", mcp.Description("Window end in seconds; the fight's end when omitted")),
	)
}

func getLogTool() mcp.Tool {
	return mcp.NewTool("get_log",
		mcp.WithDescription("Get the formatted tournament log."),
		mcp.WithNumber("since", mcp.Description("Only events after this sequence number"), mcp.DefaultNumber(0)),
	)
}

// --- Tool handlers ---

func handleStartTournament(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A tournament is already running. Only one tournament at a time is supported."), nil
	}

	cfg := SessionConfig{
		Name:         request.GetString("name", ""),
		Hero:         request.GetString("hero", ""),
		Players:      request.GetInt("players", 4),
		Seed:         int64(request.GetInt("seed", 0)),
		RosterFile:   rosterFile,
		RosterNumber: request.GetInt("roster", 0),
		MaxRounds:    request.GetInt("max_rounds", 0),
	}
	if cfg.Players < 2 {
		return mcp.NewToolResultError("players must be >= 2"), nil
	}
	if request.GetBool("human", false) {
		cfg.HumanPort = port
	}

	sess, err := NewTournamentSession(cfg)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start tournament: %v", err), nil
	}
	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if resp.TournamentOver {
		finish(sess)
	}
	resp.Port = cfg.HumanPort

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleShopAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	return respond(ctx, func(actions []tournament.ShopAction) (int, string) {
		if index < 0 || index >= len(actions) {
			return -1, "Invalid index. Must be 0-" + strconv.Itoa(len(actions)-1) + "."
		}
		return index, ""
	})
}

func handleBuyCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slot := request.GetInt("slot", -1)
	return respond(ctx, find(func(a tournament.ShopAction) bool {
		return a.Type == tournament.ShopBuy && a.Slot == slot
	}, "Slot "+strconv.Itoa(slot)+" cannot be bought (sold, too expensive, maxed, or out of range)."))
}

func handleReroll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ctx, find(func(a tournament.ShopAction) bool {
		return a.Type == tournament.ShopReroll
	}, "Not enough money to reroll."))
}

func handleLockShop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	want := tournament.ShopUnlock
	if request.GetBool("locked", true) {
		want = tournament.ShopLock
	}
	return respond(ctx, find(func(a tournament.ShopAction) bool {
		return a.Type == want
	}, "The shop is already in that state."))
}

func handleNextRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ctx, find(func(a tournament.ShopAction) bool {
		return a.Type == tournament.ShopDone
	}, "Cannot end the shop phase now."))
}

// find picks the first pending action matching pred.
func find(pred func(tournament.ShopAction) bool, miss string) func([]tournament.ShopAction) (int, string) {
	return func(actions []tournament.ShopAction) (int, string) {
		for i, a := range actions {
			if pred(a) {
				return i, ""
			}
		}
		return -1, miss
	}
}

// respond validates the pending decision, submits the chosen action index and
// waits for the next decision.
func respond(ctx context.Context, choose func([]tournament.ShopAction) (int, string)) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No tournament is running. Use start_tournament first."), nil
	}

	sess := activeSession
	sess.poll()
	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Type != DecisionShopAction {
		return mcp.NewToolResultErrorf("No shop decision pending (pending is '%s').", pending.Type), nil
	}

	idx, miss := choose(pending.actions)
	if idx < 0 {
		return mcp.NewToolResultError(miss), nil
	}

	sess.agentCtrl.responseCh <- idx

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.TournamentOver {
		finish(sess)
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No tournament is running. Use start_tournament first."), nil
	}
	sess := activeSession
	sess.poll()
	resp := sess.response()
	if resp.TournamentOver {
		finish(sess)
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// FightWindowResponse is the fight_window result.
type FightWindowResponse struct {
	Round    int                 `json:"round"`
	Fight    adnet.ResultView    `json:"fight"`
	From     float64             `json:"from"`
	To       float64             `json:"to"`
	Snapshot *adnet.SnapshotView `json:"snapshot,omitempty"`
	Empty    bool                `json:"empty,omitempty"`
}

func handleFightWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		sess = lastSession
	}
	if sess == nil {
		return mcp.NewToolResultError("No tournament has been played. Use start_tournament first."), nil
	}

	round := request.GetInt("round", 0)
	index := request.GetInt("fight", 0)
	rc, err := sess.capture(round, index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	from := request.GetFloat("from", 0)
	to := request.GetFloat("to", rc.Capture.Duration()+1)
	if to <= from {
		return mcp.NewToolResultErrorf("Empty window [%g, %g).", from, to), nil
	}

	resp := FightWindowResponse{
		Round: round,
		Fight: adnet.ResultViews(sess.battle, []tournament.RoundCapture{rc})[0],
		From:  from,
		To:    to,
	}
	resp.Fight.Index = index
	if snap, ok := rc.Capture.Window(from, to); ok {
		sv := adnet.SnapshotViewOf(snap)
		resp.Snapshot = &sv
	} else {
		resp.Empty = true
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		sess = lastSession
	}
	if sess == nil {
		return mcp.NewToolResultError("No tournament has been played. Use start_tournament first."), nil
	}
	events := sess.events.Since(request.GetInt("since", 0))
	if len(events) == 0 {
		return mcp.NewToolResultText("(no events)"), nil
	}
	return mcp.NewToolResultText(log.FormatAll(events)), nil
}
