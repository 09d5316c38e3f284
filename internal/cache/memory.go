package cache

import (
	"context"
	"time"
	"weathercache/internal/metrics"
	"weathercache/internal/models"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process ForecastCache used when no Redis address is configured
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a cache whose entries expire after ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		items: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, date string) (*models.Forecast, bool, error) {
	v, found := c.items.Get(key(date))
	metrics.RecordCacheLookup("memory", found)
	if !found {
		return nil, false, nil
	}

	f := *v.(*models.Forecast)
	return &f, true, nil
}

func (c *MemoryCache) Set(_ context.Context, forecast *models.Forecast) error {
	f := *forecast
	c.items.SetDefault(key(forecast.Date), &f)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, dates ...string) error {
	for _, date := range dates {
		c.items.Delete(key(date))
	}
	return nil
}

func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}
