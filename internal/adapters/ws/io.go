package ws

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/app"
	"github.com/avezina/parley/internal/core"
)

func (ctl *ChatWSController) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.Opts.PingPeriod)
	defer func() {
		ticker.Stop()
		// Tear the transport down so the read side unblocks; otherwise a
		// failed writer leaves readPump parked in ReadMessage on a
		// half-open socket and teardown never runs.
		c.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Opts.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drives the session until the transport dies, then runs the
// guaranteed teardown. The deferred Terminate fires on every exit path,
// clean close or abrupt transport error alike.
func (ctl *ChatWSController) readPump(ctx context.Context, cancel context.CancelFunc, sess *app.Session, c *wsConn) {
	defer func() {
		log.Info().Str("module", "ws").Str("handle", string(sess.Handle())).Msg("readPump closing")
		sess.Terminate()
		if ctl.Limiter != nil && len(ctl.Deps.Presence.HandlesOf(sess.User().ID)) == 0 {
			ctl.Limiter.Forget(sess.User().ID)
		}
		cancel()
	}()

	// Each ping from writePump must come back as a pong before the read
	// deadline lapses, or the peer is treated as gone.
	pongWait := ctl.Opts.PingPeriod + ctl.Opts.WriteTimeout
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Str("handle", string(sess.Handle())).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("handle", string(sess.Handle())).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(ctx, sess, c, data)
		}
	}
}

func (ctl *ChatWSController) handleFrame(ctx context.Context, sess *app.Session, c *wsConn, data []byte) {
	cmd, err := decodeCommand(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "ws").Str("handle", string(sess.Handle())).Msg("dropping malformed command")
		ctl.sendEvent(c, core.ErrorEvent{Reason: "bad_payload"})
		return
	}

	if ctl.Limiter != nil && rateLimited(cmd) && !ctl.Limiter.Allow(sess.User().ID) {
		log.Warn().Str("module", "ws").Str("user", string(sess.User().ID)).Msg("rate limit exceeded, dropping command")
		return
	}

	if err := sess.HandleCommand(ctx, cmd); err != nil {
		if errors.Is(err, app.ErrNotActive) {
			return
		}
		log.Warn().Err(err).Str("module", "ws").Str("handle", string(sess.Handle())).Msg("command rejected")
		ctl.sendEvent(c, core.ErrorEvent{Reason: "bad_payload"})
	}
}

func rateLimited(cmd app.Command) bool {
	switch cmd.(type) {
	case app.SendMessage, app.Typing:
		return true
	default:
		return false
	}
}

func (ctl *ChatWSController) sendEvent(c *wsConn, ev core.Event) {
	frame, err := ev.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("encode event")
		return
	}
	_ = c.TrySend(frame)
}
