package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Cache helpers over the shared client. Every helper is nil-safe: when Redis
// was never initialized (tests, local runs without Redis) reads miss and
// writes are dropped, so callers fall through to the database.

var ErrCacheMiss = redis.Nil

// GetJSON reads key and unmarshals the stored JSON into dest.
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	if client == nil {
		return ErrCacheMiss
	}

	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON marshals value and stores it under key with the given TTL.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("Failed to write cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// DeleteByPattern removes every key matching the glob pattern using SCAN,
// avoiding a blocking KEYS call.
func DeleteByPattern(ctx context.Context, pattern string) error {
	if client == nil {
		return nil
	}

	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("Failed to scan cache keys", map[string]interface{}{
			"pattern": pattern,
			"error":   err.Error(),
		})
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Failed to delete cache keys", map[string]interface{}{
			"pattern": pattern,
			"count":   len(keys),
			"error":   err.Error(),
		})
		return err
	}

	logger.Debug("Cache keys invalidated", map[string]interface{}{
		"pattern": pattern,
		"count":   len(keys),
	})
	return nil
}
