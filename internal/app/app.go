package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"weathercache/internal/api"
	"weathercache/internal/cache"
	"weathercache/internal/collector"
	"weathercache/internal/config"
	"weathercache/internal/database"
	"weathercache/internal/weather"
)

// App holds the wired components shared by the commands
type App struct {
	DB        *database.DB
	Cache     cache.ForecastCache
	Service   *weather.Service
	Collector *collector.Collector
}

// New opens the store and cache and wires the refresh pipeline.
// The store schema is created if missing.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	return NewWithFetcher(ctx, cfg, api.NewYandexClient(cfg.Weather, logger), logger)
}

// NewWithFetcher is New with a caller supplied upstream
func NewWithFetcher(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher, logger *slog.Logger) (*App, error) {
	db, err := database.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.Init(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	forecastCache, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	svc := weather.NewService(db, forecastCache, logger)

	return &App{
		DB:        db,
		Cache:     forecastCache,
		Service:   svc,
		Collector: collector.New(fetcher, svc, cfg.Weather, logger),
	}, nil
}

// Close releases the cache and the database
func (a *App) Close() error {
	return errors.Join(a.Cache.Close(), a.DB.Close())
}
