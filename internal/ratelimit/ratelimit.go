// Package ratelimit implements a Redis fixed-window counter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:ratelimit:"

// ErrInvalidWindow is returned for windows shorter than a millisecond.
var ErrInvalidWindow = errors.New("rate limit window must be at least 1ms")

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)
}

type redisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) Limiter {
	return &redisLimiter{client: client}
}

// Allow counts one hit against key in the current window.
func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if limit <= 0 {
		return true, 0, nil
	}
	if window < time.Millisecond {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, ErrInvalidWindow)
	}

	bucket := time.Now().UnixMilli() / window.Milliseconds()
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	remaining := max(limit-count, 0)
	return count <= limit, remaining, nil
}
