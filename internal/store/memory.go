package store

import (
	"context"
	"sync"

	"github.com/avezina/parley/internal/domain"
)

// MemoryStore is the dev-mode store. It holds messages per conversation
// in insertion order.
type MemoryStore struct {
	mu     sync.Mutex
	byConv map[domain.ConversationID][]domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byConv: make(map[domain.ConversationID][]domain.Message)}
}

func (s *MemoryStore) Append(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byConv[msg.ConversationID] = append(s.byConv[msg.ConversationID], msg)
	return nil
}

// Messages returns a copy of the conversation's messages.
func (s *MemoryStore) Messages(conv domain.ConversationID) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.byConv[conv]))
	copy(out, s.byConv[conv])
	return out
}
