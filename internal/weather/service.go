package weather

import (
	"context"
	"errors"
	"log/slog"
	"weathercache/internal/cache"
	"weathercache/internal/models"
)

// Store is the persistent forecast storage behind the service
type Store interface {
	UpsertForecasts(ctx context.Context, condition, season string, days []models.ForecastDay) error
	GetForecastByDate(ctx context.Context, date string) (*models.Forecast, error)
	Ping(ctx context.Context) error
}

// Service answers forecast queries from the cache and the store,
// and keeps the cache consistent with writes made by the collector.
type Service struct {
	store  Store
	cache  cache.ForecastCache
	logger *slog.Logger
}

func NewService(store Store, c cache.ForecastCache, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  c,
		logger: logger.With("component", "weather"),
	}
}

// GetForecastByDate returns the forecast for date, or nil when nothing is stored for it.
// Cache failures are logged and the store is used instead.
func (s *Service) GetForecastByDate(ctx context.Context, date string) (*models.Forecast, error) {
	f, found, err := s.cache.Get(ctx, date)
	if err != nil {
		s.logger.Warn("cache lookup failed", "date", date, "error", err)
	} else if found {
		return f, nil
	}

	f, err = s.store.GetForecastByDate(ctx, date)
	if err != nil || f == nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, f); err != nil {
		s.logger.Warn("failed to cache forecast", "date", date, "error", err)
	}
	return f, nil
}

// UpsertForecasts writes the days to the store and drops them from the cache.
// The cache is cleared even when some days failed to store.
func (s *Service) UpsertForecasts(ctx context.Context, condition, season string, days []models.ForecastDay) error {
	storeErr := s.store.UpsertForecasts(ctx, condition, season, days)

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}

	// Use a fresh context so a cancelled refresh still leaves no stale entries
	if err := s.cache.Delete(context.WithoutCancel(ctx), dates...); err != nil {
		s.logger.Error("failed to invalidate cached forecasts", "dates", dates, "error", err)
		return errors.Join(storeErr, err)
	}

	return storeErr
}

// Ready reports whether the store can serve requests
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
