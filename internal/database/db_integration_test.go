//go:build integration

package database

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"weathercache/internal/config"
	"weathercache/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

func TestMySQL_UpsertAndGet(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcmysql.Run(ctx, "mysql:8.0.36",
		tcmysql.WithDatabase("weather"),
		tcmysql.WithUsername("weather"),
		tcmysql.WithPassword("weather"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := NewDB(config.DatabaseConfig{
		Driver:       "mysql",
		DSN:          dsn,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Init(ctx))
	require.NoError(t, db.Init(ctx))

	day := models.ForecastDay{
		Date:    "2024-05-03",
		Sunrise: "04:41",
		Hours:   []models.HourEntry{{Hour: "9", Temp: ptr(12.5), FeelsLike: ptr(10)}},
	}
	require.NoError(t, db.UpsertForecasts(ctx, "clear", "summer", []models.ForecastDay{day}))

	day.Sunrise = "04:43"
	require.NoError(t, db.UpsertForecasts(ctx, "overcast", "summer", []models.ForecastDay{day}))

	n, err := db.CountForecasts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := db.GetForecastByDate(ctx, "2024-05-03")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "overcast", f.Condition)
	assert.Equal(t, "04:43", f.Sunrise)
	assert.Empty(t, f.Sunset)
	assert.InDelta(t, 12.5, *f.Hours["9"].Temp, 0.001)

	missing, err := db.GetForecastByDate(ctx, "2024-05-10")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
