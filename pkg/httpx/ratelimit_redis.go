package httpx

import (
	"context"
	"time"

	"github.com/aussiebroadwan/gatekeeper/pkg/slogx"
	"github.com/go-redis/redis/v8"
)

// RedisLimiter is a fixed-window counter shared by every replica that talks
// to the same Redis. Burst is ignored; the window admits RequestsPerWindow.
//
// Redis errors fail open: an unavailable limiter must not take the API down.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter namespaces keys under prefix so several profiles can share
// one Redis database.
func NewRedisLimiter(client redis.Cmdable, prefix string, cfg RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: "ratelimit:" + prefix + ":",
		limit:  int64(cfg.RequestsPerWindow),
		window: cfg.Window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	k := l.prefix + key

	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		slogx.FromContext(ctx).Warn("rate limit: redis unavailable, allowing request", "err", err)
		return true, 0
	}

	// The first hit of a window starts its clock.
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			slogx.FromContext(ctx).Warn("rate limit: failed to set window expiry", "err", err)
		}
	}

	if n <= l.limit {
		return true, 0
	}

	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil || ttl <= 0 {
		// A counter without expiry would block forever; repair it.
		_ = l.client.Expire(ctx, k, l.window).Err()
		ttl = l.window
	}
	return false, ttl
}
