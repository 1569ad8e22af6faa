// Package cache keeps recently evaluated sector states in redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agrotech/fieldwatch/internal/alerting"
	"github.com/agrotech/fieldwatch/internal/config"
	"github.com/agrotech/fieldwatch/internal/errors"
	"github.com/agrotech/fieldwatch/internal/models"
	"github.com/redis/go-redis/v9"
)

// StatusCache stores SectorMonitor values per sector and reducer with a TTL.
type StatusCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStatusCache(client *redis.Client, prefix string, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewUnavailableError("redis not reachable", err)
	}
	return client, nil
}

func (c *StatusCache) key(sectorID, reducer string) string {
	return fmt.Sprintf("%s:sector:%s:%s", c.prefix, sectorID, reducer)
}

// Get returns the cached monitor. A miss yields (nil, false, nil).
func (c *StatusCache) Get(ctx context.Context, sectorID, reducer string) (*models.SectorMonitor, bool, error) {
	raw, err := c.client.Get(ctx, c.key(sectorID, reducer)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewUnavailableError("failed to read sector status cache", err)
	}

	var monitor models.SectorMonitor
	if err := json.Unmarshal(raw, &monitor); err != nil {
		return nil, false, errors.NewInternalError("corrupt sector status cache entry", err)
	}
	return &monitor, true, nil
}

func (c *StatusCache) Set(ctx context.Context, monitor *models.SectorMonitor) error {
	raw, err := json.Marshal(monitor)
	if err != nil {
		return errors.NewInternalError("failed to encode sector status", err)
	}
	if err := c.client.Set(ctx, c.key(monitor.SectorID, monitor.Reducer), raw, c.ttl).Err(); err != nil {
		return errors.NewUnavailableError("failed to write sector status cache", err)
	}
	return nil
}

// Invalidate drops the cached state of a sector for every reducer.
func (c *StatusCache) Invalidate(ctx context.Context, sectorID string) error {
	keys := []string{
		c.key(sectorID, alerting.ReducerAverage),
		c.key(sectorID, alerting.ReducerLatest),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errors.NewUnavailableError("failed to invalidate sector status cache", err)
	}
	return nil
}
