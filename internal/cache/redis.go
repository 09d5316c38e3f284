package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"weathercache/internal/config"
	"weathercache/internal/metrics"
	"weathercache/internal/models"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a ForecastCache shared by every process that points at the same Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and checks the connection
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, date string) (*models.Forecast, bool, error) {
	data, err := c.client.Get(ctx, key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup("redis", false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from redis: %w", date, err)
	}

	var f models.Forecast
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached forecast %s: %w", date, err)
	}

	metrics.RecordCacheLookup("redis", true)
	return &f, true, nil
}

func (c *RedisCache) Set(ctx context.Context, forecast *models.Forecast) error {
	data, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("failed to encode forecast %s: %w", forecast.Date, err)
	}

	if err := c.client.Set(ctx, key(forecast.Date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache forecast %s: %w", forecast.Date, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}

	keys := make([]string, len(dates))
	for i, date := range dates {
		keys[i] = key(date)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached forecasts: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
