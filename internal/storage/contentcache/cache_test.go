package contentcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, time.Hour)
}

func TestCacheMissThenHit(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	_, hit, err := cache.Get(ctx, "42")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "42", "graph TD\n  A --> B"))

	content, hit, err := cache.Get(ctx, "42")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "graph TD\n  A --> B", content)
}

func TestCacheInvalidate(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "42", "graph TD"))
	require.NoError(t, cache.Invalidate(ctx, "42"))

	_, hit, err := cache.Get(ctx, "42")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheKeysAreScopedPerDiagram(t *testing.T) {
	cache := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "first"))
	require.NoError(t, cache.Set(ctx, "b", "second"))
	require.NoError(t, cache.Invalidate(ctx, "a"))

	content, hit, err := cache.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "second", content)
}
