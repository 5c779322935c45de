package db

import (
	"context"
	"fmt"
	"time"

	"github.com/matheus/courseplatform/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisDB wraps the Redis client used for webhook claims and token revocation
type RedisDB struct {
	Client *redis.Client
}

// NewRedisDB creates a new Redis client and verifies connectivity
func NewRedisDB(cfg *config.Config) (*RedisDB, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to establish redis connection: %w", err)
	}

	return &RedisDB{Client: client}, nil
}

// Close closes the underlying client
func (r *RedisDB) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
