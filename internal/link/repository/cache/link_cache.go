// Package cache puts a Redis read-through cache in front of a link store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shortlink/internal/link/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	linkCachePrefix = "link:"
	// DefaultTTL applies when the configured TTL is not positive.
	DefaultTTL = 10 * time.Minute
)

// LinkCache caches links by token.
// Implementations report a miss as nil, nil and never fail the caller.
type LinkCache interface {
	Get(ctx context.Context, token string) (*domain.Link, error)
	Set(ctx context.Context, link *domain.Link) error
}

// Compile-time interface checks
var (
	_ LinkCache = (*RedisLinkCache)(nil)
	_ LinkCache = (*noopLinkCache)(nil)
)

// RedisLinkCache implements LinkCache using Redis.
type RedisLinkCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLinkCache creates a new Redis-based link cache.
// Returns a no-op cache if the Redis client is nil.
func NewRedisLinkCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) LinkCache {
	if rdb == nil {
		return &noopLinkCache{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLinkCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisLinkCache) cacheKey(token string) string {
	return linkCachePrefix + token
}

// Get retrieves a link from Redis. Errors are logged and reported as a miss.
func (c *RedisLinkCache) Get(ctx context.Context, token string) (*domain.Link, error) {
	data, err := c.rdb.Get(ctx, c.cacheKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get link from cache", zap.String("token", token), zap.Error(err))
		}
		return nil, nil
	}

	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		c.logger.Warn("failed to unmarshal cached link", zap.String("token", token), zap.Error(err))
		return nil, nil
	}
	return &link, nil
}

// Set stores a link in Redis. Errors are logged, never returned.
func (c *RedisLinkCache) Set(ctx context.Context, link *domain.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		c.logger.Warn("failed to marshal link for cache", zap.String("token", link.Token), zap.Error(err))
		return nil
	}

	if err := c.rdb.Set(ctx, c.cacheKey(link.Token), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache link", zap.String("token", link.Token), zap.Error(err))
	}
	return nil
}

// noopLinkCache is used when Redis is not configured.
type noopLinkCache struct{}

func (c *noopLinkCache) Get(context.Context, string) (*domain.Link, error) {
	return nil, nil
}

func (c *noopLinkCache) Set(context.Context, *domain.Link) error {
	return nil
}
