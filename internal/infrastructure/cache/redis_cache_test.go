package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampliart/ampliart-api/internal/infrastructure/cache"
)

type payload struct {
	Total string `json:"total"`
}

func newCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute), mr
}

func TestFetchJSON_CacheaHastaBump(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: "80.00"}, nil
	}

	key, err := c.BuildKey(ctx, "sales", "month", "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, "sales:month:2024-02-10:v1", key)

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, "80.00", got.Total)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	require.NoError(t, c.Bump(ctx))
	key2, err := c.BuildKey(ctx, "sales", "month", "2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, "sales:month:2024-02-10:v2", key2)
	require.NoError(t, c.FetchJSON(ctx, key2, &got, loader))
	assert.Equal(t, 2, calls)
}

func TestFetchJSON_ErrorDelLoaderNoSeGuarda(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var got payload
	err := c.FetchJSON(ctx, "k", &got, func(context.Context) (any, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCacheNil_SiempreLlamaAlLoader(t *testing.T) {
	var c *cache.Cache
	ctx := context.Background()
	calls := 0

	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var got payload
	for i := 0; i < 2; i++ {
		require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (any, error) {
			calls++
			return payload{Total: "1"}, nil
		}))
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Bump(ctx))
}
