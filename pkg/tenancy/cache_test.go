package tenancy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantkit/tenantkit/pkg/tenancy"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := tenancy.NewMemoryCache()
		ctx := context.Background()
		tenant := testTenant(1, "acme")

		cache.Set(ctx, &tenant, time.Minute)

		got, ok := cache.Get(ctx, 1)
		require.True(t, ok)
		assert.Equal(t, "acme", got.Name)
	})

	t.Run("miss on unknown id", func(t *testing.T) {
		t.Parallel()

		cache := tenancy.NewMemoryCache()
		_, ok := cache.Get(context.Background(), 99)
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		cache := tenancy.NewMemoryCache()
		ctx := context.Background()
		tenant := testTenant(1, "acme")

		cache.Set(ctx, &tenant, 10*time.Millisecond)
		time.Sleep(25 * time.Millisecond)

		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("oldest entry evicted at capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenancy.NewMemoryCacheWithSize(2)
		ctx := context.Background()

		for id := int64(1); id <= 3; id++ {
			tenant := testTenant(id, "t")
			cache.Set(ctx, &tenant, time.Minute)
		}

		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
		_, ok = cache.Get(ctx, 3)
		assert.True(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cache := tenancy.NewMemoryCache()
		ctx := context.Background()
		tenant := testTenant(1, "acme")

		cache.Set(ctx, &tenant, time.Minute)
		cache.Delete(ctx, 1)

		_, ok := cache.Get(ctx, 1)
		assert.False(t, ok)
	})
}

func TestCachedRepository(t *testing.T) {
	t.Parallel()

	t.Run("read-through caches lookups", func(t *testing.T) {
		t.Parallel()

		inner := newMockRepo()
		inner.addTenant(testTenant(42, "acme"))
		repo := tenancy.NewCachedRepository(inner, tenancy.NewMemoryCache(), time.Minute)
		ctx := context.Background()

		for range 3 {
			tenant, err := repo.FindByID(ctx, 42)
			require.NoError(t, err)
			assert.Equal(t, int64(42), tenant.ID)
		}

		assert.Equal(t, 1, inner.findCalls)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		t.Parallel()

		inner := newMockRepo()
		repo := tenancy.NewCachedRepository(inner, tenancy.NewMemoryCache(), time.Minute)
		ctx := context.Background()

		_, err := repo.FindByID(ctx, 42)
		require.ErrorIs(t, err, tenancy.ErrTenantNotFound)

		_, err = repo.FindByID(ctx, 42)
		require.ErrorIs(t, err, tenancy.ErrTenantNotFound)
		assert.Equal(t, 2, inner.findCalls)
	})

	t.Run("invalidate evicts", func(t *testing.T) {
		t.Parallel()

		inner := newMockRepo()
		inner.addTenant(testTenant(42, "acme"))
		repo := tenancy.NewCachedRepository(inner, tenancy.NewMemoryCache(), time.Minute)
		ctx := context.Background()

		_, err := repo.FindByID(ctx, 42)
		require.NoError(t, err)

		repo.Invalidate(ctx, 42)

		_, err = repo.FindByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, 2, inner.findCalls)
	})

	t.Run("no-op cache always delegates", func(t *testing.T) {
		t.Parallel()

		inner := newMockRepo()
		inner.addTenant(testTenant(42, "acme"))
		repo := tenancy.NewCachedRepository(inner, tenancy.NewNoOpCache(), time.Minute)
		ctx := context.Background()

		for range 3 {
			_, err := repo.FindByID(ctx, 42)
			require.NoError(t, err)
		}
		assert.Equal(t, 3, inner.findCalls)
	})
}
