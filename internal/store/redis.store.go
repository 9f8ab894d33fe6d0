package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alimjan/wholesale-crm/pkg/redis"
)

// RedisStore persists collections as JSON strings in redis. Redis has
// no multi-key transactions we could lean on here, so WithinTransaction
// is a pass-through; the single sequential caller the core assumes
// makes that sound.
type RedisStore struct {
	adapter redis.RedisAdapter
}

func NewRedisStore(adapter redis.RedisAdapter) *RedisStore {
	return &RedisStore{adapter: adapter}
}

func (s *RedisStore) Get(ctx context.Context, collection string, out any) error {
	data, err := s.adapter.Get(collection)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			return nil
		}
		return fmt.Errorf("get %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Set(ctx context.Context, collection string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.adapter.Set(collection, data, 0); err != nil {
		return fmt.Errorf("set %s: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
