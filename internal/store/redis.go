package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avezina/parley/internal/domain"
)

// RedisStore keeps one capped list per conversation:
//
//	msgs:{conversationId} = newest-first list of JSON messages
type RedisStore struct {
	rdb          *redis.Client
	historyLimit int64
}

func NewRedisStore(rdb *redis.Client, historyLimit int64) *RedisStore {
	if historyLimit <= 0 {
		historyLimit = 500
	}
	return &RedisStore{rdb: rdb, historyLimit: historyLimit}
}

func (s *RedisStore) Append(ctx context.Context, msg domain.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	key := "msgs:" + string(msg.ConversationID)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, s.historyLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
