package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/app"
	"github.com/avezina/parley/internal/auth"
	"github.com/avezina/parley/internal/core"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Options tune the per-connection transport behavior.
type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	WriteTimeout time.Duration
	SendBuffer   int
}

func (o *Options) defaults() {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 32
	}
}

// ChatWSController upgrades authenticated requests into chat sessions.
type ChatWSController struct {
	Auth    *auth.Authenticator
	Deps    app.SessionDeps
	Limiter *RateLimiter
	Opts    Options
}

func NewChatWSController(a *auth.Authenticator, deps app.SessionDeps, limiter *RateLimiter, opts Options) *ChatWSController {
	opts.defaults()
	return &ChatWSController{Auth: a, Deps: deps, Limiter: limiter, Opts: opts}
}

// credentialFrom pulls the handshake token from the query string, the
// Authorization header, or a cookie, in that order.
func credentialFrom(c *gin.Context) string {
	if tok := strings.TrimSpace(strings.TrimPrefix(c.Query("token"), "Bearer ")); tok != "" {
		return tok
	}
	if tok := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")); tok != "" {
		return tok
	}
	tok, _ := c.Cookie("token")
	return tok
}

// HandleChat authenticates, upgrades, and runs one connection. Rejection
// happens before the upgrade, so a refused client never reaches the
// event surface and no registry state is touched.
func (ctl *ChatWSController) HandleChat(ctx context.Context, c *gin.Context) {
	user, err := ctl.Auth.Authenticate(c.Request.Context(), credentialFrom(c))
	if err != nil {
		log.Warn().Err(err).Str("module", "ws").Msg("connection refused")
		c.JSON(http.StatusUnauthorized, gin.H{"error": authReason(err)})
		return
	}

	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade")
		return
	}
	wsc.SetReadLimit(ctl.Opts.ReadLimit)

	handle := core.HandleID(uuid.NewString())
	conn := newWSConn(wsc, ctl.Opts.SendBuffer)
	sess := app.NewSession(handle, user, conn, ctl.Deps)
	log.Info().Str("module", "ws").Str("handle", string(handle)).Str("user", user.Username).Msg("new connection")

	sess.Start()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		ctl.writePump(ctx, conn)
	}()
	go ctl.readPump(ctx, cancel, sess, conn)
}

func authReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return "missing credential"
	case errors.Is(err, auth.ErrExpiredCredential):
		return "expired credential"
	default:
		return "invalid credential"
	}
}
