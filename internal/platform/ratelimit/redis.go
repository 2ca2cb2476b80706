package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "hrportal:rl:"

type RedisCounter struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Hit increments the window counter. The expiry is set by the first hit of
// a window and repaired if a crash left the key without one.
func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	full := redisPrefix + key
	count, err := c.client.Incr(ctx, full).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := c.client.PExpire(ctx, full, window).Err(); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}
	ttl, err := c.client.PTTL(ctx, full).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		if err := c.client.PExpire(ctx, full, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return int(count), ttl, nil
}
