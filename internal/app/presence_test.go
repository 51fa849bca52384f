package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avezina/parley/internal/core"
	"github.com/avezina/parley/internal/domain"
)

func user(id, name string) domain.User {
	return domain.User{ID: domain.UserID(id), Username: name}
}

func TestPresence_RegisterAndSnapshot(t *testing.T) {
	p := NewPresence()

	p.Register(user("u1", "alice"), core.HandleID("h1"), &fakeConn{})
	p.Register(user("u2", "bob"), core.HandleID("h2"), &fakeConn{})

	snap := p.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, "alice", snap[0].Username)
	require.Equal(t, "bob", snap[1].Username)
}

func TestPresence_RegisterIsIdempotentPerPair(t *testing.T) {
	p := NewPresence()
	conn := &fakeConn{}

	p.Register(user("u1", "alice"), core.HandleID("h1"), conn)
	p.Register(user("u1", "alice"), core.HandleID("h1"), conn)

	require.Len(t, p.Snapshot(), 1)
	require.Len(t, p.Everyone(), 1)
}

func TestPresence_SnapshotDeduplicatesMultiDevice(t *testing.T) {
	p := NewPresence()

	p.Register(user("u1", "alice"), core.HandleID("phone"), &fakeConn{})
	p.Register(user("u1", "alice"), core.HandleID("laptop"), &fakeConn{})

	snap := p.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, domain.UserID("u1"), snap[0].ID)
	require.Len(t, p.HandlesOf("u1"), 2)
}

func TestPresence_DeregisterIsIdempotent(t *testing.T) {
	p := NewPresence()
	p.Register(user("u1", "alice"), core.HandleID("h1"), &fakeConn{})

	p.Deregister(core.HandleID("h1"))
	p.Deregister(core.HandleID("h1"))

	require.Empty(t, p.Snapshot())
	require.Empty(t, p.HandlesOf("u1"))
}

func TestPresence_DeregisterUnknownHandleIsNoop(t *testing.T) {
	p := NewPresence()
	p.Register(user("u1", "alice"), core.HandleID("h1"), &fakeConn{})

	p.Deregister(core.HandleID("never-registered"))

	require.Len(t, p.Snapshot(), 1)
}

func TestPresence_MultiDeviceDisconnectKeepsUserOnline(t *testing.T) {
	p := NewPresence()
	p.Register(user("u1", "alice"), core.HandleID("phone"), &fakeConn{})
	p.Register(user("u1", "alice"), core.HandleID("laptop"), &fakeConn{})

	p.Deregister(core.HandleID("phone"))
	require.Len(t, p.Snapshot(), 1, "second device still live")

	p.Deregister(core.HandleID("laptop"))
	require.Empty(t, p.Snapshot())
}

func TestPresence_SnapshotReflectsSequence(t *testing.T) {
	p := NewPresence()

	p.Register(user("u1", "alice"), core.HandleID("h1"), &fakeConn{})
	p.Register(user("u2", "bob"), core.HandleID("h2"), &fakeConn{})
	p.Register(user("u3", "carol"), core.HandleID("h3"), &fakeConn{})
	p.Deregister(core.HandleID("h2"))

	snap := p.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, domain.UserID("u1"), snap[0].ID)
	require.Equal(t, domain.UserID("u3"), snap[1].ID)
}
