package store

import (
	"testing"

	"github.com/alimjan/wholesale-crm/pkg/kv"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *KVStore {
	db, err := kv.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	return NewKVStore(db)
}
