package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/alimjan/wholesale-crm/internal/model"
	"github.com/alimjan/wholesale-crm/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	// Unique connection name per test to avoid the global adapter cache.
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "crm", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, NewRedisStore(adapter)
}

func TestRedisStore_GetAndSet(t *testing.T) {
	_, s := setupRedisStore(t)
	ctx := context.Background()

	t.Run("never-written collection stays empty", func(t *testing.T) {
		customers := []model.Customer{}
		require.NoError(t, s.Get(ctx, CollectionCustomers, &customers))
		assert.Empty(t, customers)
	})

	t.Run("round trip", func(t *testing.T) {
		in := []model.Product{{ID: "1", Name: "Soap", TotalQuantity: 100, RemainingQuantity: 70}}
		require.NoError(t, s.Set(ctx, CollectionProducts, in))

		out := []model.Product{}
		require.NoError(t, s.Get(ctx, CollectionProducts, &out))
		assert.Equal(t, in, out)
	})

	t.Run("overwrite replaces the whole collection", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, CollectionCustomers, []model.Customer{{ID: "1", Name: "Adil"}}))
		require.NoError(t, s.Set(ctx, CollectionCustomers, []model.Customer{{ID: "2", Name: "Gulnar"}}))

		out := []model.Customer{}
		require.NoError(t, s.Get(ctx, CollectionCustomers, &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Gulnar", out[0].Name)
	})
}

func TestRedisStore_KeysArePrefixed(t *testing.T) {
	mr, s := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, CollectionCustomers, []model.Customer{{ID: "1", Name: "Adil"}}))
	assert.True(t, mr.Exists("crm:"+CollectionCustomers))
}

func TestRedisStore_WithinTransactionIsPassThrough(t *testing.T) {
	_, s := setupRedisStore(t)
	ctx := context.Background()

	called := false
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		called = true
		return s.Set(ctx, CollectionCustomers, []model.Customer{{ID: "1", Name: "Adil"}})
	})
	require.NoError(t, err)
	assert.True(t, called)
}
