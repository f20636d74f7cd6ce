package web

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/peterkuimelis/autoduel/internal/fight"
	adnet "github.com/peterkuimelis/autoduel/internal/net"
	"github.com/peterkuimelis/autoduel/internal/sim"
)

// DuelRequest describes a single fight to simulate.
type DuelRequest struct {
	sim.Matchup
	Seed int64 `json:"seed"`
}

// DuelResult is the outcome of a simulated fight.
type DuelResult struct {
	Winner   int                  `json:"winner"`
	Duration float64              `json:"duration"`
	Stats    []adnet.SideStatView `json:"stats"`
	Final    adnet.SnapshotView   `json:"final"`
}

// duelRequestFromQuery reads hero1, hero2, cards1, cards2 and seed.
// Card lists are comma separated "id" or "id:level".
func duelRequestFromQuery(q url.Values) (DuelRequest, error) {
	req := DuelRequest{Matchup: sim.Matchup{Hero1: q.Get("hero1"), Hero2: q.Get("hero2")}}
	var err error
	if req.Cards1, err = sim.ParseCards(q.Get("cards1")); err != nil {
		return req, err
	}
	if req.Cards2, err = sim.ParseCards(q.Get("cards2")); err != nil {
		return req, err
	}
	if s := q.Get("seed"); s != "" {
		if req.Seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return req, fmt.Errorf("bad seed %q", s)
		}
	}
	return req, nil
}

// simulate runs the fight. Identical concurrent requests share one run.
func (s *Server) simulate(req DuelRequest) (*fight.Capture, error) {
	if _, _, err := req.Loadouts(); err != nil {
		return nil, err
	}

	key, _ := json.Marshal(req)
	v, err, shared := s.duels.Do(string(key), func() (any, error) {
		return sim.Duel(req.Matchup, req.Seed)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("hero1", req.Hero1).Str("hero2", req.Hero2).Int64("seed", req.Seed).Bool("shared", shared).Msg("duel simulated")
	return v.(*fight.Capture), nil
}

func summarize(c *fight.Capture) DuelResult {
	side, _ := c.Winner()
	return DuelResult{
		Winner:   int(side),
		Duration: c.Duration(),
		Stats:    adnet.SideStatViews(c),
		Final:    adnet.SnapshotViewOf(c.Last()),
	}
}
