// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"costume-studio/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPool = 10

// RedisClient holds the connection used by the artifact store.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedis builds a client for cfg. Artifacts are multi-megabyte values, so
// writes get a longer deadline than reads.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultRedisPool
	}
	return &RedisClient{rdb: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     pool,
		MinIdleConns: pool / 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})}, nil
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// GetClient exposes the client for the artifact store.
func (c *RedisClient) GetClient() *redis.Client {
	return c.rdb
}

func (c *RedisClient) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
