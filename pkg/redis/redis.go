package redis

import (
	"context"
	"time"

	"github.com/dkim/aquamarket-backend/config"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		return err
	}

	logger.Info("Redis connection established successfully", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})
	return nil
}

// GetClient returns the Redis client instance (nil if Init was not called)
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
