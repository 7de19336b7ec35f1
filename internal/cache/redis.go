package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/oggyb/filmatch/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForURL generates the Redis key under which a catalog response body is
// cached. Keyed by the exact request URL; hashed so poster paths and query
// strings stay within key-length limits.
func (c *RedisCache) KeyForURL(url string) string {
	sum := sha1.Sum([]byte(url))
	return "tmdb:resp:" + hex.EncodeToString(sum[:])
}

// GetResponse returns the cached body for a request URL, or (nil, false)
// on a miss. Redis errors are treated as misses so a cache outage only
// costs remote quota, never correctness.
func (c *RedisCache) GetResponse(ctx context.Context, url string) ([]byte, bool) {
	val, err := c.Client.Get(ctx, c.KeyForURL(url)).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// PutResponse stores a response body for a request URL with the given TTL.
func (c *RedisCache) PutResponse(ctx context.Context, url string, body []byte, ttl time.Duration) error {
	return c.Client.Set(ctx, c.KeyForURL(url), body, ttl).Err()
}
