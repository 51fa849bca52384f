package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
)

// Rooms maps conversation ids to the set of handles currently subscribed.
// A handle may sit in any number of rooms; rooms with no members are
// deleted on last leave. A room entry never outlives its connection:
// the session's teardown calls LeaveAll before presence removal.
type Rooms struct {
	mu       sync.RWMutex
	byConv   map[domain.ConversationID]map[core.HandleID]core.ClientConnection
	byHandle map[core.HandleID]map[domain.ConversationID]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		byConv:   make(map[domain.ConversationID]map[core.HandleID]core.ClientConnection),
		byHandle: make(map[core.HandleID]map[domain.ConversationID]struct{}),
	}
}

// Join subscribes the handle to a conversation. Idempotent.
func (r *Rooms) Join(conv domain.ConversationID, handle core.HandleID, conn core.ClientConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.byConv[conv]
	if !ok {
		members = make(map[core.HandleID]core.ClientConnection)
		r.byConv[conv] = members
	}
	members[handle] = conn
	convs, ok := r.byHandle[handle]
	if !ok {
		convs = make(map[domain.ConversationID]struct{})
		r.byHandle[handle] = convs
	}
	convs[conv] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("conv", string(conv)).Str("handle", string(handle)).Msg("joined")
}

// Leave unsubscribes the handle from a conversation. No-op if absent.
func (r *Rooms) Leave(conv domain.ConversationID, handle core.HandleID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(conv, handle)
	log.Info().Str("module", "app.rooms").Str("conv", string(conv)).Str("handle", string(handle)).Msg("left")
}

// LeaveAll removes the handle from every room it belongs to. Called
// exactly once per disconnect from the session's teardown path.
func (r *Rooms) LeaveAll(handle core.HandleID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conv := range r.byHandle[handle] {
		r.leaveLocked(conv, handle)
	}
}

func (r *Rooms) leaveLocked(conv domain.ConversationID, handle core.HandleID) {
	if members, ok := r.byConv[conv]; ok {
		delete(members, handle)
		if len(members) == 0 {
			delete(r.byConv, conv)
		}
	}
	if convs, ok := r.byHandle[handle]; ok {
		delete(convs, conv)
		if len(convs) == 0 {
			delete(r.byHandle, handle)
		}
	}
}

// MembersOf returns a stable snapshot of the room's members, used as a
// delivery scope. An unknown conversation yields an empty set.
func (r *Rooms) MembersOf(conv domain.ConversationID) []Recipient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.byConv[conv]
	out := make([]Recipient, 0, len(members))
	for h, c := range members {
		out = append(out, Recipient{Handle: h, Conn: c})
	}
	return out
}
