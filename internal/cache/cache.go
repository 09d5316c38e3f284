package cache

import (
	"context"
	"weathercache/internal/config"
	"weathercache/internal/models"
)

// ForecastCache keeps recently read forecasts keyed by date
type ForecastCache interface {
	// Get returns the cached forecast and whether it was found
	Get(ctx context.Context, date string) (*models.Forecast, bool, error)
	Set(ctx context.Context, forecast *models.Forecast) error
	Delete(ctx context.Context, dates ...string) error
	Close() error
}

// New returns a Redis cache when an address is configured and an in-process one otherwise
func New(ctx context.Context, cfg config.RedisConfig) (ForecastCache, error) {
	if cfg.Addr == "" {
		return NewMemoryCache(cfg.TTL), nil
	}
	return NewRedisCache(ctx, cfg)
}

func key(date string) string {
	return "weathercache:forecast:" + date
}
