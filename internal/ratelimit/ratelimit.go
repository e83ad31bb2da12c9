// Package ratelimit provides a fixed-window rate limiter backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a subject may perform another action inside the
// current window.
type Limiter interface {
	Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, error)
}

// RedisLimiter counts actions per window in Redis so limits hold across
// multiple api instances.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisLimiter{client: redis.NewClient(opt)}, nil
}

// Allow increments the subject's counter for the current window and reports
// whether it is still under the limit. The first increment arms the window
// expiry.
func (rl *RedisLimiter) Allow(ctx context.Context, scope, subject string, limit int, window time.Duration) (bool, error) {
	windowStart := time.Now().Truncate(window).Unix()
	key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, subject, windowStart)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment %s: %w", key, err)
	}
	if count == 1 {
		rl.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (rl *RedisLimiter) Ping(ctx context.Context) error {
	return rl.client.Ping(ctx).Err()
}

func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}
