package cache

import (
	"context"
	"testing"
	"time"
	"weathercache/internal/config"
	"weathercache/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func sampleForecast(date string) *models.Forecast {
	return &models.Forecast{
		Date:      date,
		Condition: "clear",
		Season:    "summer",
		Sunrise:   "04:41",
		Sunset:    "20:12",
		SetEnd:    "20:57",
		Hours: map[string]models.HourForecast{
			"9": {Temp: ptr(12.5), FeelsLike: ptr(10)},
		},
	}
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), config.RedisConfig{
		Addr: mr.Addr(),
		TTL:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

// exercise runs the behaviour every ForecastCache must share
func exercise(t *testing.T, c ForecastCache) {
	ctx := context.Background()

	_, found, err := c.Get(ctx, "2024-05-03")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, sampleForecast("2024-05-03")))
	require.NoError(t, c.Set(ctx, sampleForecast("2024-05-04")))

	got, found, err := c.Get(ctx, "2024-05-03")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleForecast("2024-05-03"), got)

	require.NoError(t, c.Delete(ctx, "2024-05-03", "2024-05-04"))

	_, found, err = c.Get(ctx, "2024-05-03")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.Get(ctx, "2024-05-04")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Delete(ctx))
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	exercise(t, c)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(20 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleForecast("2024-05-03")))

	assert.Eventually(t, func() bool {
		_, found, _ := c.Get(ctx, "2024-05-03")
		return !found
	}, time.Second, 10*time.Millisecond)
}

func TestRedisCache(t *testing.T) {
	c, _ := newRedisCache(t)

	exercise(t, c)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleForecast("2024-05-03")))
	assert.Equal(t, time.Minute, mr.TTL(key("2024-05-03")))

	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "2024-05-03")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newRedisCache(t)

	require.NoError(t, mr.Set(key("2024-05-03"), "{not json"))

	_, found, err := c.Get(context.Background(), "2024-05-03")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "2024-05-03")
	assert.Error(t, err)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), config.RedisConfig{Addr: addr, TTL: time.Minute})
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, config.RedisConfig{TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	require.NoError(t, c.Close())

	mr := miniredis.RunT(t)
	c, err = New(ctx, config.RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, c)
	require.NoError(t, c.Close())
}
