package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/speech"
	"go.uber.org/zap"
)

const (
	liveWriteTimeout = 5 * time.Second
	livePongWait     = 60 * time.Second
	livePingInterval = 25 * time.Second
	liveReadLimit    = maxBodyBytes
	liveOutboundSize = 64
)

// Client frame types.
const (
	frameStart      = "start"
	frameTranscript = "transcript"
	frameCapture    = "capture"
	frameSay        = "say"
	frameEnd        = "end"
)

// Server frame types.
const (
	frameState = "state"
	frameSpeak = "speak"
	frameError = "error"
)

// clientFrame is one message from the browser. Transcript frames carry recognition results;
// Error is set instead of Text when recognition failed.
type clientFrame struct {
	Type   string               `json:"type"`
	Text   string               `json:"text,omitempty"`
	Final  bool                 `json:"final,omitempty"`
	Action string               `json:"action,omitempty"`
	Error  *speech.CaptureError `json:"error,omitempty"`
}

type serverFrame struct {
	Type  string            `json:"type"`
	State *session.Snapshot `json:"state,omitempty"`
	Text  string            `json:"text,omitempty"`
	Voice *speech.Voice     `json:"voice,omitempty"`
	Error *errorBody        `json:"error,omitempty"`
}

// liveConn queues outbound frames for a single writer goroutine. It is the session's
// speech.Synthesizer while connected.
type liveConn struct {
	conn   *websocket.Conn
	out    chan serverFrame
	logger *zap.Logger
}

func newLiveConn(conn *websocket.Conn, logger *zap.Logger) *liveConn {
	return &liveConn{conn: conn, out: make(chan serverFrame, liveOutboundSize), logger: logger}
}

// Speak sends a speak frame. It never blocks.
func (c *liveConn) Speak(text string, voice speech.Voice) {
	c.send(serverFrame{Type: frameSpeak, Text: text, Voice: &voice})
}

func (c *liveConn) send(f serverFrame) {
	select {
	case c.out <- f:
	default:
		c.logger.Warn("live outbound queue full, dropping frame", zap.String("type", f.Type))
	}
}

func (c *liveConn) sendState(snap session.Snapshot) {
	c.send(serverFrame{Type: frameState, State: &snap})
}

func (c *liveConn) sendError(err error) {
	_, body := newErrorBody(err)
	c.send(serverFrame{Type: frameError, Error: &body})
}

// writeLoop drains the queue and pings until ctx ends, then closes the connection.
func (c *liveConn) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteTimeout))
			return
		case f := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := c.conn.WriteJSON(f); err != nil {
				c.logger.Debug("live write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteTimeout)); err != nil {
				return
			}
		}
	}
}

// handleLive runs the live interview over a WebSocket. Interviewer speech is pushed as speak
// frames; every client frame is answered with a state or error frame.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.controller.Get(id); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	logger := s.logger.With(zap.String("session_id", id))
	lc := newLiveConn(conn, logger)

	ctx, cancel := context.WithCancel(s.liveCtx)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		lc.writeLoop(ctx)
	}()
	defer func() {
		cancel()
		<-writerDone
	}()

	detach, err := s.controller.Attach(id, lc)
	if err != nil {
		lc.sendError(err)
		return
	}
	defer detach()

	state, err := s.controller.Get(id)
	if err != nil {
		lc.sendError(err)
		return
	}
	lc.sendState(s.controller.Snapshot(state))
	logger.Info("live channel opened")

	conn.SetReadLimit(liveReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		var frame clientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("live channel closed unexpectedly", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))

		state, err := s.dispatchLive(ctx, id, frame)
		if err != nil {
			lc.sendError(err)
			if errors.Is(err, session.ErrNotFound) {
				return
			}
			continue
		}
		lc.sendState(s.controller.Snapshot(state))
	}
}

func (s *Server) dispatchLive(ctx context.Context, id string, f clientFrame) (session.State, error) {
	switch f.Type {
	case frameStart:
		return s.controller.StartInterview(id)
	case frameTranscript:
		return s.controller.Observe(id, speech.Update{Text: f.Text, Final: f.Final, Err: f.Error})
	case frameCapture:
		action, err := session.ParseCaptureAction(f.Action)
		if err != nil {
			return session.State{}, &RequestError{Message: err.Error()}
		}
		return s.controller.Capture(ctx, id, action)
	case frameSay:
		return s.controller.Say(ctx, id, f.Text)
	case frameEnd:
		return s.controller.EndInterview(ctx, id)
	default:
		return session.State{}, &RequestError{Message: "unknown frame type " + f.Type}
	}
}
