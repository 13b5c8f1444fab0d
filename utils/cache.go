// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"repairright/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the Redis client used for catalog caching.
var CacheClient *redis.Client

// InitCache initializes the catalog cache client. A failed ping is logged rather than
// fatal: callers treat cache errors as misses.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Redis (cache) unavailable: %v", err)
	}
}

// GetCacheClient returns the catalog cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
