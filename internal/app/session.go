package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
	"github.com/avezina/parley/internal/store"
)

// State is the session lifecycle position. Terminated is absorbing.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticated
	StateActive
	StateTerminated
)

// SessionDeps are the shared collaborators a session drives. Store is
// optional: when non-nil, sendMessage persists before relaying and a
// store failure aborts the send.
type SessionDeps struct {
	Presence *Presence
	Rooms    *Rooms
	Relay    *Relay
	Store    store.Store
	Now      func() time.Time
}

// Session drives one connection's lifecycle:
// authenticate -> register -> (join/leave/send/typing) -> deregister.
// The session owns its ClientConnection and invalidates it exactly once.
type Session struct {
	handle core.HandleID
	user   domain.User
	conn   core.ClientConnection

	deps  SessionDeps
	state atomic.Int32
	term  sync.Once
}

// NewSession wraps an already-authenticated connection. The transport
// adapter performed Connecting -> Authenticated before calling this.
func NewSession(handle core.HandleID, user domain.User, conn core.ClientConnection, deps SessionDeps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{handle: handle, user: user, conn: conn, deps: deps}
	s.state.Store(int32(StateAuthenticated))
	return s
}

func (s *Session) Handle() core.HandleID { return s.handle }
func (s *Session) User() domain.User     { return s.user }
func (s *Session) State() State          { return State(s.state.Load()) }

// Start registers the session in the presence registry, broadcasts the
// updated online-user list to everyone (the new connection included), and
// makes the session eligible for inbound commands.
func (s *Session) Start() {
	if !s.state.CompareAndSwap(int32(StateAuthenticated), int32(StateActive)) {
		return
	}
	s.deps.Presence.Register(s.user, s.handle, s.conn)
	s.broadcastPresence()
	log.Info().Str("module", "app.session").Str("handle", string(s.handle)).Str("user", s.user.Username).Msg("session active")
}

// HandleCommand processes one inbound command. A malformed command is an
// error for the caller to log; the session stays Active.
func (s *Session) HandleCommand(ctx context.Context, cmd Command) error {
	if s.State() != StateActive {
		return ErrNotActive
	}
	switch c := cmd.(type) {
	case JoinConversation:
		if !validConversation(c.Conversation) {
			return ErrMalformedCommand
		}
		s.deps.Rooms.Join(c.Conversation, s.handle, s.conn)
	case LeaveConversation:
		if !validConversation(c.Conversation) {
			return ErrMalformedCommand
		}
		s.deps.Rooms.Leave(c.Conversation, s.handle)
	case SendMessage:
		return s.sendMessage(ctx, c)
	case Typing:
		if !validConversation(c.Conversation) {
			return ErrMalformedCommand
		}
		ev := core.TypingEvent{ConversationID: c.Conversation, User: s.user, IsTyping: c.IsTyping}
		s.deps.Relay.Deliver(s.handle, ev, RoomScope{Conversation: c.Conversation})
	case Ping:
		s.sendOwn(core.PongEvent{})
	default:
		return ErrMalformedCommand
	}
	return nil
}

// sendMessage stamps the event with the session's own identity and the
// current time, persists it when a store is wired, and relays it to the
// other members of the conversation. Sending to a conversation the
// session never joined is permitted; the room may simply be empty.
func (s *Session) sendMessage(ctx context.Context, c SendMessage) error {
	if !validConversation(c.Conversation) || c.Content == "" {
		return ErrMalformedCommand
	}
	msg := domain.NewMessage(c.Conversation, s.user, c.Content, s.deps.Now())
	if s.deps.Store != nil {
		if err := s.deps.Store.Append(ctx, msg); err != nil {
			// Store failure aborts the send and is reported to the
			// sender only, never broadcast.
			log.Error().Err(err).Str("module", "app.session").Str("handle", string(s.handle)).Msg("message append failed")
			s.sendOwn(core.ErrorEvent{Reason: "message not delivered"})
			return nil
		}
	}
	s.deps.Relay.Deliver(s.handle, core.MessageEvent{Message: msg}, RoomScope{Conversation: c.Conversation})
	return nil
}

// Terminate runs the teardown path: leave every room, deregister
// presence, broadcast the updated online list, close the connection.
// It runs on any termination path and a second call is a no-op.
func (s *Session) Terminate() {
	s.term.Do(func() {
		s.state.Store(int32(StateTerminated))
		s.deps.Rooms.LeaveAll(s.handle)
		s.deps.Presence.Deregister(s.handle)
		s.broadcastPresence()
		s.conn.Close()
		log.Info().Str("module", "app.session").Str("handle", string(s.handle)).Str("user", s.user.Username).Msg("session terminated")
	})
}

func validConversation(id domain.ConversationID) bool {
	return id != "" && len(id) <= domain.MaxConversationIDLen
}

func (s *Session) broadcastPresence() {
	ev := core.PresenceEvent{Users: s.deps.Presence.Snapshot()}
	s.deps.Relay.Deliver(NoSender, ev, AllOnlineScope{})
}

func (s *Session) sendOwn(ev core.Event) {
	frame, err := ev.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "app.session").Msg("encode own event")
		return
	}
	_ = s.conn.TrySend(frame)
}
