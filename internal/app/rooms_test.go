package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
)

func TestRooms_JoinAndMembersOf(t *testing.T) {
	r := NewRooms()
	conn := &fakeConn{}

	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), conn)
	r.Join(domain.ConversationID("r1"), core.HandleID("h2"), &fakeConn{})

	require.Len(t, r.MembersOf("r1"), 2)
	require.Empty(t, r.MembersOf("unknown"))
}

func TestRooms_JoinIsIdempotent(t *testing.T) {
	r := NewRooms()
	conn := &fakeConn{}

	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), conn)
	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), conn)

	require.Len(t, r.MembersOf("r1"), 1)
}

func TestRooms_LeaveAbsentIsNoop(t *testing.T) {
	r := NewRooms()

	r.Leave(domain.ConversationID("r1"), core.HandleID("h1"))

	require.Empty(t, r.MembersOf("r1"))
}

func TestRooms_LeaveAllClearsEveryRoom(t *testing.T) {
	r := NewRooms()
	conn := &fakeConn{}
	other := &fakeConn{}

	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), conn)
	r.Join(domain.ConversationID("r2"), core.HandleID("h1"), conn)
	r.Join(domain.ConversationID("r1"), core.HandleID("h2"), other)

	r.LeaveAll(core.HandleID("h1"))

	for _, m := range r.MembersOf("r1") {
		require.NotEqual(t, core.HandleID("h1"), m.Handle)
	}
	require.Empty(t, r.MembersOf("r2"))
	require.Len(t, r.MembersOf("r1"), 1)
}

func TestRooms_LeaveAllTwiceIsNoop(t *testing.T) {
	r := NewRooms()
	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), &fakeConn{})

	r.LeaveAll(core.HandleID("h1"))
	r.LeaveAll(core.HandleID("h1"))

	require.Empty(t, r.MembersOf("r1"))
}

func TestRooms_EmptyRoomIsGarbageCollected(t *testing.T) {
	r := NewRooms()
	r.Join(domain.ConversationID("r1"), core.HandleID("h1"), &fakeConn{})
	r.Leave(domain.ConversationID("r1"), core.HandleID("h1"))

	r.mu.RLock()
	_, exists := r.byConv[domain.ConversationID("r1")]
	_, tracked := r.byHandle[core.HandleID("h1")]
	r.mu.RUnlock()
	require.False(t, exists)
	require.False(t, tracked)
}
