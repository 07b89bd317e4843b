package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a thin Redis wrapper for report and insight payloads. A nil
// *Cache is a valid no-op cache, so callers never branch on whether Redis
// is configured.
type Cache struct {
	client *redis.Client
}

func Connect(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Get().Info("connected to redis", zap.String("addr", opt.Addr))
	return &Cache{client: client}, nil
}

// Get unmarshals the cached value into dest, reporting whether it was
// found. Redis errors are logged and treated as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warn("cache read failed",
				zap.String("key", key),
				zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Get().Warn("cache entry corrupt, ignoring",
			zap.String("key", key),
			zap.Error(err))
		return false
	}
	return true
}

// Set stores the value with a TTL; failures are logged, never surfaced.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Get().Warn("cache marshal failed",
			zap.String("key", key),
			zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Get().Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err))
	}
}

// Invalidate removes keys, best effort.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Get().Warn("cache invalidation failed", zap.Error(err))
	}
}

func (c *Cache) Close() {
	if c != nil {
		_ = c.client.Close()
	}
}
