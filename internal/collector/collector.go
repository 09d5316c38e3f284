package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"weathercache/internal/api"
	"weathercache/internal/config"
	"weathercache/internal/metrics"
	"weathercache/internal/models"

	"github.com/cenkalti/backoff/v4"
)

// Fetcher retrieves the current upstream forecast
type Fetcher interface {
	FetchForecast(ctx context.Context) (*models.Poll, error)
}

// Store persists a fetched batch of days
type Store interface {
	UpsertForecasts(ctx context.Context, condition, season string, days []models.ForecastDay) error
}

// Collector periodically refreshes stored forecasts from upstream.
// After a successful cycle it waits UpdateInterval; after a failed one it retries
// every ErrorInterval until a cycle succeeds or the context is cancelled.
type Collector struct {
	fetcher Fetcher
	store   Store
	cfg     config.WeatherConfig
	logger  *slog.Logger
}

func New(fetcher Fetcher, store Store, cfg config.WeatherConfig, logger *slog.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		logger:  logger.With("component", "collector"),
	}
}

// RunOnce performs a single fetch and store cycle
func (c *Collector) RunOnce(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordRefresh(time.Since(start), err) }()

	fetchCtx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	poll, err := c.fetcher.FetchForecast(fetchCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to fetch forecast: %w", err)
	}

	if err := c.store.UpsertForecasts(ctx, poll.Condition, poll.Season, poll.Days); err != nil {
		return fmt.Errorf("failed to store forecast: %w", err)
	}

	c.logger.Info("forecast refreshed", "days", len(poll.Days), "condition", poll.Condition, "season", poll.Season, "duration", time.Since(start))
	return nil
}

// Run refreshes forecasts until ctx is cancelled. It returns nil on shutdown.
func (c *Collector) Run(ctx context.Context) error {
	c.logger.Info("collector started", "update_interval", c.cfg.UpdateInterval, "error_interval", c.cfg.ErrorInterval)

	for {
		retry := backoff.WithContext(backoff.NewConstantBackOff(c.cfg.ErrorInterval), ctx)
		err := backoff.RetryNotify(func() error {
			return c.RunOnce(ctx)
		}, retry, c.logFailure)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("collector stopped")
				return nil
			}
			return err
		}

		timer := time.NewTimer(c.cfg.UpdateInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("collector stopped")
			return nil
		case <-timer.C:
		}
	}
}

func (c *Collector) logFailure(err error, next time.Duration) {
	attrs := []any{"error", err, "retry_in", next}
	if body, ok := api.RawBody(err); ok {
		attrs = append(attrs, "response", string(body))
	}

	switch {
	case errors.Is(err, api.ErrMalformedResponse):
		c.logger.Error("upstream returned malformed forecast", attrs...)
	case errors.Is(err, api.ErrUpstreamFetch):
		c.logger.Error("upstream fetch failed", attrs...)
	default:
		c.logger.Error("forecast refresh failed", attrs...)
	}
}
