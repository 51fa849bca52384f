package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avezina/parley/internal/domain"
)

func TestMemoryStore_AppendKeepsOrderPerConversation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	sender := domain.User{ID: "u1", Username: "alice"}

	require.NoError(t, s.Append(ctx, domain.NewMessage("r1", sender, "first", time.Now())))
	require.NoError(t, s.Append(ctx, domain.NewMessage("r1", sender, "second", time.Now())))
	require.NoError(t, s.Append(ctx, domain.NewMessage("r2", sender, "elsewhere", time.Now())))

	r1 := s.Messages("r1")
	require.Len(t, r1, 2)
	require.Equal(t, "first", r1[0].Content)
	require.Equal(t, "second", r1[1].Content)
	require.Len(t, s.Messages("r2"), 1)
	require.Empty(t, s.Messages("r3"))
}
