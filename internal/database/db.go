package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"weathercache/internal/config"
	"weathercache/internal/metrics"
	"weathercache/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/create-weather-table.sql
var createWeatherTableSQL string

//go:embed sql/get-forecast.sql
var getForecastSQL string

//go:embed sql/forecast-exists.sql
var forecastExistsSQL string

//go:embed sql/insert-forecast.sql
var insertForecastSQL string

//go:embed sql/update-forecast.sql
var updateForecastSQL string

//go:embed sql/count-forecasts.sql
var countForecastsSQL string

const tableName = "weather"

// ErrStorageUnavailable is returned when the database cannot be reached
var ErrStorageUnavailable = errors.New("storage unavailable")

// DB stores one forecast row per calendar day.
// It is safe for concurrent use by the refresh loop and query handlers.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// NewDB opens the connection pool and checks that the database is reachable.
// dsn examples:
//
//	mysql:   "user:pass@tcp(localhost:3306)/weather?parseTime=true"
//	sqlite3: "file:/var/lib/weathercache/weather.db?_busy_timeout=5000"
func NewDB(cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, unavailable("failed to open database", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, unavailable("failed to ping database", err)
	}

	return &DB{
		conn:   conn,
		logger: logger.With("component", "database", "driver", cfg.Driver),
	}, nil
}

// Init creates the weather table if it does not exist yet. It never drops or alters data.
func (db *DB) Init(ctx context.Context) error {
	queryStart := time.Now()
	_, err := db.conn.ExecContext(ctx, createWeatherTableSQL)
	metrics.RecordDBQuery("CREATE", tableName, time.Since(queryStart), err)
	if err != nil {
		return unavailable("failed to initialize schema", err)
	}
	return nil
}

// UpsertForecasts stores every day, replacing all fields of days that already exist.
// condition and season are applied to every day. Each day is written in its own
// transaction; a failed day does not stop the others and all failures are returned joined.
func (db *DB) UpsertForecasts(ctx context.Context, condition, season string, forecasts []models.ForecastDay) error {
	defer db.recordPoolStats()

	var errs []error
	for _, day := range forecasts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		operation, err := db.upsertDay(ctx, condition, season, day)
		if err != nil {
			db.logger.Error("failed to upsert forecast", "date", day.Date, "error", err)
			errs = append(errs, fmt.Errorf("upsert forecast %s: %w", day.Date, err))
			continue
		}

		metrics.ForecastDaysStored.WithLabelValues(operation).Inc()
		db.logger.Debug("stored forecast", "date", day.Date, "operation", operation)
	}

	return errors.Join(errs...)
}

// upsertDay checks for an existing row and then updates or inserts it in one transaction.
// It returns the operation performed.
func (db *DB) upsertDay(ctx context.Context, condition, season string, day models.ForecastDay) (string, error) {
	hours, err := serializeHours(day.Hours)
	if err != nil {
		return "", err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("failed to begin transaction", err)
	}
	defer tx.Rollback() // Will be ignored if committed

	queryStart := time.Now()
	var exists int
	err = tx.QueryRowContext(ctx, forecastExistsSQL, day.Date).Scan(&exists)
	metrics.RecordDBQuery("SELECT", tableName, time.Since(queryStart), ignoreNoRows(err))

	operation := "update"
	switch {
	case errors.Is(err, sql.ErrNoRows):
		operation = "insert"
	case err != nil:
		return "", unavailable("failed to look up forecast", err)
	}

	queryStart = time.Now()
	if operation == "update" {
		_, err = tx.ExecContext(ctx, updateForecastSQL,
			condition, season, day.Sunrise, day.Sunset, day.SetEnd, hours, day.Date)
		metrics.RecordDBQuery("UPDATE", tableName, time.Since(queryStart), err)
	} else {
		_, err = tx.ExecContext(ctx, insertForecastSQL,
			day.Date, condition, season, day.Sunrise, day.Sunset, day.SetEnd, hours)
		metrics.RecordDBQuery("INSERT", tableName, time.Since(queryStart), err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to %s forecast: %w", operation, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return operation, nil
}

// GetForecastByDate returns the forecast stored for date ("2006-01-02").
// It returns nil and no error when there is no such row.
func (db *DB) GetForecastByDate(ctx context.Context, date string) (*models.Forecast, error) {
	queryStart := time.Now()
	row := db.conn.QueryRowContext(ctx, getForecastSQL, date)

	var f models.Forecast
	var hours string
	err := row.Scan(&f.Date, &f.Condition, &f.Season, &f.Sunrise, &f.Sunset, &f.SetEnd, &hours)
	metrics.RecordDBQuery("SELECT", tableName, time.Since(queryStart), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("failed to get forecast", err)
	}

	f.Hours, err = deserializeHours(hours)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hours for %s: %w", date, err)
	}

	return &f, nil
}

// CountForecasts returns the number of stored days
func (db *DB) CountForecasts(ctx context.Context) (int, error) {
	queryStart := time.Now()
	var n int
	err := db.conn.QueryRowContext(ctx, countForecastsSQL).Scan(&n)
	metrics.RecordDBQuery("SELECT", tableName, time.Since(queryStart), err)
	if err != nil {
		return 0, unavailable("failed to count forecasts", err)
	}
	return n, nil
}

// Ping checks that the database is still reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return unavailable("failed to ping database", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func (db *DB) recordPoolStats() {
	stats := db.conn.Stats()
	metrics.UpdateDBConnectionStats(stats.OpenConnections, stats.InUse, stats.Idle)
}

// serializeHours flattens the upstream hour list into a JSON object keyed by hour,
// e.g. {"9":{"temp":12.5,"feels_like":10}}. Missing temperatures are left out.
func serializeHours(hours []models.HourEntry) (string, error) {
	clearHours := make(map[string]models.HourForecast, len(hours))
	for _, h := range hours {
		key := h.Hour
		if n, err := strconv.Atoi(h.Hour); err == nil {
			key = strconv.Itoa(n) // "07" -> "7"
		}
		clearHours[key] = models.HourForecast{
			Temp:      h.Temp,
			FeelsLike: h.FeelsLike,
		}
	}

	data, err := json.Marshal(clearHours)
	if err != nil {
		return "", fmt.Errorf("failed to serialize hours: %w", err)
	}
	return string(data), nil
}

func deserializeHours(data string) (map[string]models.HourForecast, error) {
	hours := make(map[string]models.HourForecast)
	if data == "" {
		return hours, nil
	}
	if err := json.Unmarshal([]byte(data), &hours); err != nil {
		return nil, err
	}
	return hours, nil
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrStorageUnavailable, err)
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
