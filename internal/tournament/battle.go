package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/log"
)

// Reward constants.
const (
	RoundIncome     = 250
	WinBonus        = 50
	InterestStep    = 100
	InterestCap     = 10
	InterestPerStep = 10
	LoserPerAttack  = 15
)

// CaptureKind distinguishes fought pairings from byes.
type CaptureKind int

const (
	CaptureFight CaptureKind = iota
	CaptureSkip
)

func (k CaptureKind) String() string {
	if k == CaptureFight {
		return "Fight"
	}
	return "Skip"
}

// RoundCapture is the outcome of one pairing in a round. For a Skip only
// Player1 is set.
type RoundCapture struct {
	Kind    CaptureKind
	Player1 int
	Player2 int
	Winner  int
	Capture *fight.Capture
}

// Loser returns the losing player id of a fight.
func (rc RoundCapture) Loser() int {
	if rc.Winner == rc.Player1 {
		return rc.Player2
	}
	return rc.Player1
}

// ErrRoundPending is returned by RunRound when the previous round has not been applied.
var ErrRoundPending = errors.New("previous round not applied")

// Config configures a new tournament.
type Config struct {
	Players []*Player
	Logger  log.EventLogger
	Seed    int64 // RNG seed (0 for time based)
	Workers int   // parallel fights per round (0 = one per pairing)
}

// Battle is a running tournament: players, the shared card pool and the shop lock.
type Battle struct {
	ID      string
	Players []*Player
	Round   int
	Pool    *Pool
	Locked  bool
	Logger  log.EventLogger
	Seed    int64

	rng     *rand.Rand
	workers int
	pending []RoundCapture
}

// New seeds the pool, withdraws the players' starting cards from it and deals
// every player an initial shop.
func New(cfg Config) *Battle {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	rng := rand.New(rand.NewSource(seed))

	b := &Battle{
		ID:      uuid.NewString(),
		Players: cfg.Players,
		Round:   1,
		Pool:    NewPool(len(cfg.Players), rng),
		Logger:  logger,
		Seed:    seed,
		rng:     rng,
		workers: cfg.Workers,
	}
	for i, p := range b.Players {
		p.ID = i
		for _, c := range p.Cards {
			b.Pool.withdraw(c.ID, c.Level)
		}
	}
	for _, p := range b.Players {
		b.deal(p)
	}
	return b
}

// Player returns the player with the given id, or nil.
func (b *Battle) Player(id int) *Player {
	if id < 0 || id >= len(b.Players) {
		return nil
	}
	return b.Players[id]
}

// Alive returns the players still in the tournament.
func (b *Battle) Alive() []*Player {
	var out []*Player
	for _, p := range b.Players {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Finished reports whether at most one player has hp left.
func (b *Battle) Finished() bool {
	return len(b.Alive()) <= 1
}

// Champion returns the last player standing once the tournament is finished.
func (b *Battle) Champion() (*Player, bool) {
	alive := b.Alive()
	if len(alive) != 1 {
		return nil, false
	}
	return alive[0], true
}

// Pending returns the captures of the round awaiting Apply.
func (b *Battle) Pending() []RoundCapture {
	return b.pending
}

type pairing struct {
	p1, p2 *Player
	seed   int64
}

// RunRound pairs the live players, fights every pairing and records the
// results for Apply. Fights run in parallel; each has its own pre-drawn seed
// so the outcome does not depend on scheduling.
func (b *Battle) RunRound(ctx context.Context) ([]RoundCapture, error) {
	if b.pending != nil {
		return nil, ErrRoundPending
	}

	var live, dead []*Player
	for _, p := range b.Players {
		if p.Alive() {
			live = append(live, p)
		} else {
			dead = append(dead, p)
		}
	}
	b.rng.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
	b.Logger.Log(log.NewRoundStartEvent(b.Round, len(live)))

	var pairs []pairing
	var skips []*Player
	for i := 0; i+1 < len(live); i += 2 {
		pairs = append(pairs, pairing{p1: live[i], p2: live[i+1], seed: b.rng.Int63()})
	}
	if len(live)%2 == 1 {
		skips = append(skips, live[len(live)-1])
	}
	skips = append(skips, dead...)

	results := make([]RoundCapture, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	if b.workers > 0 {
		g.SetLimit(b.workers)
	}
	for i, pr := range pairs {
		b.Logger.Log(log.NewPairingEvent(b.Round, pr.p1.ID, pr.p2.ID, pr.p1.Name, pr.p2.Name))
		lo1, lo2 := pr.p1.Loadout(), pr.p2.Loadout()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c := fight.Run(lo1, lo2, rand.New(rand.NewSource(pr.seed)))
			winner := pr.p1.ID
			if side, _ := c.Winner(); side == fight.Fighter2 {
				winner = pr.p2.ID
			}
			results[i] = RoundCapture{Kind: CaptureFight, Player1: pr.p1.ID, Player2: pr.p2.ID, Winner: winner, Capture: c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("round %d: %w", b.Round, err)
	}

	for _, rc := range results {
		w, l := b.Players[rc.Winner], b.Players[rc.Loser()]
		b.Logger.Log(log.NewFightResultEvent(b.Round, w.ID, w.Name, l.Name, rc.Capture.Duration()))
	}
	for _, p := range skips {
		results = append(results, RoundCapture{Kind: CaptureSkip, Player1: p.ID, Winner: -1})
		b.Logger.Log(log.NewSkipEvent(b.Round, p.ID, p.Name))
	}

	b.pending = results
	return results, nil
}

// Apply commits the pending round: rewards, eliminations, a free reroll for
// every live player unless the shop is locked, and the round counter.
func (b *Battle) Apply() {
	for _, rc := range b.pending {
		if rc.Kind != CaptureFight {
			continue
		}
		w, l := b.Players[rc.Winner], b.Players[rc.Loser()]
		reward(w, l)
		b.Logger.Log(log.NewRewardEvent(b.Round, w.ID, w.Name, w.Money, w.HP, w.Attack))
		b.Logger.Log(log.NewRewardEvent(b.Round, l.ID, l.Name, l.Money, l.HP, l.Attack))
		if !l.Alive() {
			b.Logger.Log(log.NewEliminatedEvent(b.Round, l.ID, l.Name))
		}
	}
	b.pending = nil

	if !b.Locked {
		for _, p := range b.Alive() {
			b.deal(p)
		}
	}
	b.Round++
}

// reward applies end-of-duel economy and grade changes to winner w and loser l.
func reward(w, l *Player) {
	for _, p := range []*Player{w, l} {
		p.Money += min(p.Money/InterestStep, InterestCap) * InterestPerStep
		p.Money += RoundIncome
	}
	w.Money += WinBonus

	l.Money += w.Attack * LoserPerAttack
	l.HP = max(0, l.HP-w.Attack)
	l.Attack = StartAttack
	w.Attack = min(MaxAttack, w.Attack+1)
}

// deal runs a free reroll and logs the offer.
func (b *Battle) deal(p *Player) {
	b.Pool.RerollFree(p)
	ids := make([]string, 0, len(p.Reserved))
	for _, s := range p.Reserved {
		ids = append(ids, s.Card.ID)
	}
	b.Logger.Log(log.NewDealEvent(b.Round, p.ID, p.Name, ids))
}

// Reroll is the paid reroll. It no-ops and returns false when the player
// cannot afford it.
func (b *Battle) Reroll(id int) bool {
	p := b.Player(id)
	if p == nil || p.Money < RerollCost {
		return false
	}
	p.Money -= RerollCost
	b.Logger.Log(log.NewRerollEvent(b.Round, p.ID, p.Name, true))
	b.deal(p)
	return true
}

// BuyCard buys reserved slot i: a copy of an owned card levels it up,
// anything else joins the loadout. When the last active slot is sold the
// shop refills. Returns false if the purchase is not possible.
func (b *Battle) BuyCard(id, slot int) bool {
	p := b.Player(id)
	if p == nil || slot < 0 || slot >= len(p.Reserved) || !p.Reserved[slot].Active {
		return false
	}
	c := p.Reserved[slot].Card
	owned := p.Owned(c.ID)
	if owned != nil && owned.AtMax() {
		return false
	}
	if p.Money < c.Cost {
		return false
	}

	p.Money -= c.Cost
	p.Reserved[slot].Active = false
	if owned != nil {
		owned.Level++
		b.Logger.Log(log.NewLevelUpEvent(b.Round, p.ID, p.Name, c.ID, owned.Level))
	} else {
		p.Cards = append(p.Cards, c)
		b.Logger.Log(log.NewBuyEvent(b.Round, p.ID, p.Name, c.ID, c.Cost, p.Money))
	}

	if p.ActiveSlots() == 0 {
		b.deal(p)
	}
	return true
}

// SetCardsLocked toggles the shop lock; a locked shop keeps its offers across rounds.
func (b *Battle) SetCardsLocked(locked bool) {
	if b.Locked == locked {
		return
	}
	b.Locked = locked
	b.Logger.Log(log.NewLockEvent(b.Round, locked))
}
