package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"termometro/models"
)

const statsCacheKey = "termometro:estadisticas"

// RedisStatsCache keeps the last computed statistics in Redis with a TTL.
type RedisStatsCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStatsCache creates a cache stored under a fixed key.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, key: statsCacheKey, ttl: ttl}
}

// Get returns the cached statistics. ok is false on a cache miss.
func (c *RedisStatsCache) Get(ctx context.Context) (models.Stats, bool, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Stats{}, false, nil
		}
		return models.Stats{}, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var stats models.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A payload we cannot read is as good as a miss.
		_ = c.client.Del(ctx, c.key).Err()
		return models.Stats{}, false, nil
	}
	return stats, true, nil
}

// Set stores the statistics until the TTL expires.
func (c *RedisStatsCache) Set(ctx context.Context, stats models.Stats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

// Invalidate drops the cached statistics.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}
