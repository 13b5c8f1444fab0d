package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores serialized catalog reads. Implementations treat every failure as a
// miss; the catalog is always readable from Mongo.
type Cache interface {
	// Get returns the entry for key and the generation it was looked up under.
	// A negative generation means the cache is unavailable.
	Get(ctx context.Context, key string) (value []byte, gen int64, ok bool)
	// Set stores value under gen. Entries written under a superseded generation are
	// never read.
	Set(ctx context.Context, gen int64, key string, value []byte)
	// Invalidate drops every cached entry.
	Invalidate(ctx context.Context)
}

// NopCache caches nothing.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, int64, bool) { return nil, -1, false }
func (NopCache) Set(context.Context, int64, string, []byte)        {}
func (NopCache) Invalidate(context.Context)                        {}

// RedisCache keeps entries under a generation number. Invalidate bumps the generation,
// so stale entries are never read again and age out with their TTL.
type RedisCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, Prefix: "catalog", TTL: ttl}
}

func (c *RedisCache) genKey() string {
	return c.Prefix + ":gen"
}

func (c *RedisCache) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", c.Prefix, gen, key)
}

func (c *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.Client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, int64, bool) {
	if c == nil || c.Client == nil {
		return nil, -1, false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, -1, false
	}
	val, err := c.Client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if err != nil {
		return nil, gen, false
	}
	return val, gen, true
}

// Set writes under the generation observed by the preceding Get, so a read that
// raced an Invalidate lands in a generation nobody reads any more.
func (c *RedisCache) Set(ctx context.Context, gen int64, key string, value []byte) {
	if c == nil || c.Client == nil || gen < 0 {
		return
	}
	c.Client.Set(ctx, c.entryKey(gen, key), value, c.TTL)
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Incr(ctx, c.genKey())
}
