// Package redis hosts the optional fast-store backend for the distance
// cache. The engine runs without it when CACHE_BACKEND=records; the
// connection is still established at startup so readiness can report on it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds the startup ping. Defaults to 5s.
	DialTimeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
