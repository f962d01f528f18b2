// Package cache provides best-effort invalidation of cached contact views.
//
// List views and dashboard statistics are cached outside the engine; after a
// merge or a suggestion apply the affected key prefixes must be dropped. The
// signal is fire-and-forget: a failed invalidation is logged and swallowed,
// never surfaced to the mutation that triggered it.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/rkarimi/rolodex/pkg/logging"
)

// Key prefixes for cached views.
const (
	PrefixContactList = "contacts:list:"
	PrefixStats       = "contacts:stats:"
	PrefixGroups      = "groups:list:"
)

// Invalidator drops cached entries under a key prefix.
type Invalidator interface {
	// Invalidate removes all cached entries whose keys start with prefix.
	// Best-effort: implementations log failures instead of returning them.
	Invalidate(ctx context.Context, prefix string)
}

// RedisInvalidator implements Invalidator against a Redis cache.
type RedisInvalidator struct {
	client *redis.Client
	logger logging.Logger
}

// NewRedisInvalidator creates an invalidator backed by the given client.
func NewRedisInvalidator(client *redis.Client, logger logging.Logger) *RedisInvalidator {
	return &RedisInvalidator{
		client: client,
		logger: logger.With(logging.F("component", "cache_invalidator")),
	}
}

// Invalidate scans for keys under prefix and deletes them in batches.
func (r *RedisInvalidator) Invalidate(ctx context.Context, prefix string) {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			r.logger.Warn("cache scan failed",
				logging.Err(err),
				logging.F("prefix", prefix))
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.logger.Warn("cache delete failed",
					logging.Err(err),
					logging.F("prefix", prefix),
					logging.F("keys", len(keys)))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// NopInvalidator is an Invalidator that does nothing. Used when no cache is
// configured and in tests.
type NopInvalidator struct{}

// Invalidate is a no-op.
func (NopInvalidator) Invalidate(ctx context.Context, prefix string) {}
