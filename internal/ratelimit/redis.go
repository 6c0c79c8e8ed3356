package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by Redis.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
}

// Redis is a fixed-window limiter whose counters live in Redis, so that
// several instances share one budget per client.
type Redis struct {
	client RedisClient
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedis allows limit hits per key in each window.
func NewRedis(client RedisClient, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: "donaciones:ratelimit:",
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	start := windowStart(r.now(), r.window)
	k := fmt.Sprintf("%s%s:%d", r.prefix, key, start.Unix())

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("incrementing %s: %w", k, err)
	}
	if n == 1 {
		if err := r.client.ExpireAt(ctx, k, start.Add(r.window)).Err(); err != nil {
			return false, fmt.Errorf("expiring %s: %w", k, err)
		}
	}
	return n <= int64(r.limit), nil
}
