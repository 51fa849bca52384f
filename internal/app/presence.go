package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
)

type presenceEntry struct {
	User   domain.User
	Handle core.HandleID
	Conn   core.ClientConnection
}

// Recipient is a delivery target captured from a registry snapshot.
type Recipient struct {
	Handle core.HandleID
	Conn   core.ClientConnection
}

// Presence is the source of truth for who is online. One entry per
// (user, handle) pair; a user with several devices holds several entries.
// All mutations and snapshots serialize on one RWMutex.
type Presence struct {
	mu       sync.RWMutex
	byHandle map[core.HandleID]*presenceEntry
	order    []core.HandleID
}

func NewPresence() *Presence {
	return &Presence{byHandle: make(map[core.HandleID]*presenceEntry)}
}

// Register adds a presence entry. Re-registering the same (user, handle)
// pair is a no-op, not an error.
func (p *Presence) Register(user domain.User, handle core.HandleID, conn core.ClientConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byHandle[handle]; ok {
		return
	}
	p.byHandle[handle] = &presenceEntry{User: user, Handle: handle, Conn: conn}
	p.order = append(p.order, handle)
	log.Info().Str("module", "app.presence").Str("handle", string(handle)).Str("user", string(user.ID)).Msg("registered")
}

// Deregister removes every entry matching the handle. Always succeeds;
// duplicate disconnect notifications make this a no-op the second time.
func (p *Presence) Deregister(handle core.HandleID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byHandle[handle]; !ok {
		return
	}
	delete(p.byHandle, handle)
	for i, h := range p.order {
		if h == handle {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "app.presence").Str("handle", string(handle)).Msg("deregistered")
}

// Snapshot returns the distinct users currently online, deduplicated by
// user id, in first-seen connection order.
func (p *Presence) Snapshot() []domain.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	seen := make(map[domain.UserID]struct{}, len(p.byHandle))
	out := make([]domain.User, 0, len(p.byHandle))
	for _, h := range p.order {
		e, ok := p.byHandle[h]
		if !ok {
			continue
		}
		if _, dup := seen[e.User.ID]; dup {
			continue
		}
		seen[e.User.ID] = struct{}{}
		out = append(out, e.User)
	}
	return out
}

// HandlesOf returns all live connections held by one user.
func (p *Presence) HandlesOf(uid domain.UserID) []Recipient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Recipient, 0, 2)
	for _, h := range p.order {
		if e, ok := p.byHandle[h]; ok && e.User.ID == uid {
			out = append(out, Recipient{Handle: e.Handle, Conn: e.Conn})
		}
	}
	return out
}

// Everyone returns every live connection, used for broadcast-all delivery.
func (p *Presence) Everyone() []Recipient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Recipient, 0, len(p.byHandle))
	for _, h := range p.order {
		if e, ok := p.byHandle[h]; ok {
			out = append(out, Recipient{Handle: e.Handle, Conn: e.Conn})
		}
	}
	return out
}
