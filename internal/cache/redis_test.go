package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/filmatch/internal/cache"
	"github.com/oggyb/filmatch/internal/config"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	return cache.NewRedisCache(cfg), mr
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	require.NoError(t, rc.Ping(ctx))

	require.NoError(t, rc.Set(ctx, "feed:last", "42", time.Minute))
	val, err := rc.Get(ctx, "feed:last")
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	// TTL is honored
	mr.FastForward(2 * time.Minute)
	_, err = rc.Get(ctx, "feed:last")
	assert.Error(t, err)

	require.NoError(t, rc.Set(ctx, "feed:last", "7", 0))
	require.NoError(t, rc.Del(ctx, "feed:last"))
	_, err = rc.Get(ctx, "feed:last")
	assert.Error(t, err)
}

func TestResponseCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	url := "https://api.example.org/discover/movie?page=1"

	_, ok := rc.GetResponse(ctx, url)
	assert.False(t, ok)

	body := []byte(`{"results":[]}`)
	require.NoError(t, rc.PutResponse(ctx, url, body, time.Hour))

	got, ok := rc.GetResponse(ctx, url)
	require.True(t, ok)
	assert.Equal(t, body, got)

	// keys are hashed per URL, so a different query misses
	_, ok = rc.GetResponse(ctx, "https://api.example.org/discover/movie?page=2")
	assert.False(t, ok)

	mr.FastForward(2 * time.Hour)
	_, ok = rc.GetResponse(ctx, url)
	assert.False(t, ok)
}

func TestOutageReadsAsMiss(t *testing.T) {
	ctx := context.Background()
	rc, mr := setupCache(t)

	url := "https://api.example.org/genre/movie/list"
	require.NoError(t, rc.PutResponse(ctx, url, []byte("x"), time.Hour))

	mr.Close()

	_, ok := rc.GetResponse(ctx, url)
	assert.False(t, ok)
}
