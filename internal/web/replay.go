package web

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/peterkuimelis/autoduel/internal/fight"
	adnet "github.com/peterkuimelis/autoduel/internal/net"
)

const (
	minSpeed = 0.1
	maxSpeed = 1000.0
)

// replayRequest is the browser's opening message on /ws.
type replayRequest struct {
	Type  string      `json:"type"` // "replay"
	Duel  DuelRequest `json:"duel"`
	Speed float64     `json:"speed,omitempty"` // playback rate, 1 = real time
}

// replayMessage is every server-to-browser message on /ws.
type replayMessage struct {
	Type     string              `json:"type"` // "start", "frame", "end" or "error"
	Duration float64             `json:"duration,omitempty"`
	FPS      int                 `json:"fps,omitempty"`
	Snapshot *adnet.SnapshotView `json:"snapshot,omitempty"`
	Result   *DuelResult         `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		logger.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	var req replayRequest
	if err := wsjson.Read(ctx, wsConn, &req); err != nil || req.Type != "replay" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected replay message")
		return
	}

	c, err := s.simulate(req.Duel)
	if err != nil {
		wsjson.Write(ctx, wsConn, replayMessage{Type: "error", Error: err.Error()})
		wsConn.Close(websocket.StatusNormalClosure, "bad duel")
		return
	}

	speed := req.Speed
	if speed == 0 {
		speed = 1
	}
	speed = min(max(speed, minSpeed), maxSpeed)

	if err := s.stream(ctx, wsConn, c, speed); err != nil {
		logger.Debug().Err(err).Msg("replay aborted")
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "replay finished")
}

// stream sends one merged timeline window per frame at wall-clock pace.
// Frames in which nothing happened are skipped but still take their time.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, c *fight.Capture, speed float64) error {
	duration := c.Duration()
	if err := wsjson.Write(ctx, conn, replayMessage{Type: "start", Duration: duration, FPS: s.fps}); err != nil {
		return err
	}

	frame := 1.0 / float64(s.fps)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * frame / speed))
	defer ticker.Stop()

	for i := 0; ; i++ {
		from := float64(i) * frame
		if from > duration {
			break
		}
		if snap, ok := c.Window(from, from+frame); ok {
			sv := adnet.SnapshotViewOf(snap)
			if err := wsjson.Write(ctx, conn, replayMessage{Type: "frame", Snapshot: &sv}); err != nil {
				return err
			}
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	res := summarize(c)
	return wsjson.Write(ctx, conn, replayMessage{Type: "end", Result: &res})
}
