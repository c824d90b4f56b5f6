package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the subset of the Redis client the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// AttemptLimiter counts attempts per key in fixed windows.
// Key format: ratelimit:<key>
type AttemptLimiter struct {
	client Counter
	max    int64
	window time.Duration
}

// NewAttemptLimiter allows max attempts per key within each window.
func NewAttemptLimiter(client Counter, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, max: int64(max), window: window}
}

// Allow records one attempt and reports whether it is within the limit.
// A counter left without an expiry, e.g. after a failed Expire, gets its
// window on the next attempt so it cannot block the key forever.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	needsWindow := n == 1
	if !needsWindow {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err != nil {
			return false, fmt.Errorf("rate limit ttl: %w", err)
		}
		// -1: no expiry set.
		needsWindow = ttl < 0
	}
	if needsWindow {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.max, nil
}

func (l *AttemptLimiter) key(key string) string {
	return "ratelimit:" + key
}
