// Package rate limits sign-in attempts. Counters live in Redis keyed
// by window start, so limits hold across gateway replicas.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result describes one limiter decision.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter is a fixed-window counter. Each key gets one bucket per
// window; the bucket name pins the window start, so the remaining
// window comes from the clock and the bucket expires on its own.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		max:    int64(max),
		window: window,
	}
}

func (l *RedisLimiter) bucket(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), windowStart.Unix())
}

// Allow counts one hit against the key's current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	windowStart := now.Truncate(l.window)
	left := windowStart.Add(l.window).Sub(now)

	bucket := l.bucket(key, windowStart)
	hits, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		return Result{}, err
	}
	if hits == 1 {
		// First hit creates the bucket; give it a lifetime.
		if err := l.client.Expire(ctx, bucket, l.window).Err(); err != nil {
			return Result{}, err
		}
	}

	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   left,
	}
	if !res.Allowed {
		res.RetryAfter = left
	}
	return res, nil
}
