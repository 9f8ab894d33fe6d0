package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alimjan/wholesale-crm/pkg/kv"
)

// KVStore persists collections in the gorm-backed record area
// (sqlite or postgres).
type KVStore struct {
	db *kv.DB
}

func NewKVStore(db *kv.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, collection string, out any) error {
	data, err := s.db.Get(ctx, collection)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func (s *KVStore) Set(ctx context.Context, collection string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.db.Set(ctx, collection, data); err != nil {
		return fmt.Errorf("set %s: %w", collection, err)
	}
	return nil
}

func (s *KVStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithinTransaction(ctx, fn)
}
