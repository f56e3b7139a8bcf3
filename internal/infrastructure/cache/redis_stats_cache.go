package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/report"
	"github.com/redis/go-redis/v9"
)

// RedisStatsCache caches dashboard stats in Redis. It is suitable for
// distributed deployments where multiple instances share the cache.
type RedisStatsCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisStatsCache creates a new Redis-backed stats cache
func NewRedisStatsCache(cfg RedisConfig, ttl time.Duration) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStatsCache{
		client:    client,
		keyPrefix: "report:dashboard:",
		ttl:       ttl,
	}, nil
}

// NewRedisStatsCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisStatsCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStatsCache {
	if keyPrefix == "" {
		keyPrefix = "report:dashboard:"
	}
	return &RedisStatsCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// GetDashboardStats returns the cached stats for the organization, or
// (nil, nil) on a cache miss
func (c *RedisStatsCache) GetDashboardStats(ctx context.Context, orgID uuid.UUID) (*report.DashboardStats, error) {
	payload, err := c.client.Get(ctx, c.keyPrefix+orgID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached stats: %w", err)
	}

	var stats report.DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		// A corrupt entry is treated as a miss so the caller recomputes
		return nil, nil
	}
	return &stats, nil
}

// SetDashboardStats stores the stats with the configured TTL
func (c *RedisStatsCache) SetDashboardStats(ctx context.Context, orgID uuid.UUID, stats *report.DashboardStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+orgID.String(), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stats: %w", err)
	}
	return nil
}

// InvalidateDashboardStats drops the cached stats for the organization
func (c *RedisStatsCache) InvalidateDashboardStats(ctx context.Context, orgID uuid.UUID) error {
	if err := c.client.Del(ctx, c.keyPrefix+orgID.String()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached stats: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}
