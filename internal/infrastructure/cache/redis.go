package cache

import (
	"context"
	"fmt"
	"time"

	"medilink-api/config"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Enabled reports whether a Redis host is configured.
func Enabled(cfg config.RedisConfig) bool {
	return cfg.Host != ""
}

func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.WithField("addr", client.Options().Addr).Info("Successfully connected to Redis")

	return client, nil
}

// NewMemoryCache backs sessions and rate limiters when Redis is not configured.
func NewMemoryCache() *gocache.Cache {
	return gocache.New(30*time.Minute, 10*time.Minute)
}
