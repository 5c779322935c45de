package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const claimKeyPrefix = "courseplatform:webhook:claim:"

// RedisGuard implements Guard on top of Redis SET NX, which gives the
// atomic claim semantics in a single round trip.
type RedisGuard struct {
	client *redis.Client
}

// NewRedisGuard builds a Redis-backed guard
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// Claim attempts to take ownership of key for ttl
func (g *RedisGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, claimKeyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim key: %w", err)
	}
	return ok, nil
}

// Release drops the claim on key
func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, claimKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release key: %w", err)
	}
	return nil
}
