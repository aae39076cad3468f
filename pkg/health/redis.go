package health

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisPinger is the part of a go-redis client used by RedisChecker.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisChecker checks Redis connectivity.
type RedisChecker struct {
	client RedisPinger
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client RedisPinger) (*RedisChecker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client: %w", ErrNilBackend)
	}
	return &RedisChecker{client: client}, nil
}

// Check pings Redis.
func (c *RedisChecker) Check(ctx context.Context) Result {
	pong, err := c.client.Ping(ctx).Result()
	if err != nil {
		return Unhealthy("Could not ping redis", err)
	}
	return Healthy(fmt.Sprintf("Redis replied %s", pong))
}
