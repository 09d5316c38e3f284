package server

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"weathercache/internal/database"
	"weathercache/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Forecasts is the query side used by the HTTP handlers
type Forecasts interface {
	GetForecastByDate(ctx context.Context, date string) (*models.Forecast, error)
	Ready(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	forecasts Forecasts
	app       *fiber.App
	logger    *slog.Logger
	now       func() time.Time
}

// ForecastResponse is the JSON body returned for a stored day
type ForecastResponse struct {
	Date          string                         `json:"date"`
	Condition     string                         `json:"condition"`
	ConditionText string                         `json:"condition_text"`
	Season        string                         `json:"season"`
	Sunrise       string                         `json:"sunrise"`
	Sunset        string                         `json:"sunset"`
	SetEnd        string                         `json:"set_end"`
	Temperature   *float64                       `json:"temperature"`
	FeelsLike     *float64                       `json:"feels_like"`
	Description   string                         `json:"description"`
	Hours         map[string]models.HourForecast `json:"hours"`
}

type dateQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// NewServer creates a new HTTP server
func NewServer(forecasts Forecasts, logger *slog.Logger) *Server {
	s := &Server{
		forecasts: forecasts,
		logger:    logger.With("component", "server"),
		now:       time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "weathercache",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())

	// Register routes
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.app.Group("/api/v1")
	v1.Get("/forecast", s.handleForecast)
	v1.Get("/forecast/today", s.handleForecastToday)

	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleHealth reports whether the store is reachable
func (s *Server) handleHealth(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	if err := s.forecasts.Ready(c.UserContext()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		status, code = "unhealthy", fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleForecast(c *fiber.Ctx) error {
	q := dateQuery{Date: c.Query("date", s.today())}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	}
	return s.respondForecast(c, q.Date)
}

func (s *Server) handleForecastToday(c *fiber.Ctx) error {
	return s.respondForecast(c, s.today())
}

func (s *Server) respondForecast(c *fiber.Ctx, date string) error {
	f, err := s.forecasts.GetForecastByDate(c.UserContext(), date)
	if err != nil {
		s.logger.Error("failed to get forecast", "date", date, "error", err)
		if errors.Is(err, database.ErrStorageUnavailable) {
			return fiber.NewError(fiber.StatusServiceUnavailable, "forecast storage is unavailable")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get forecast")
	}
	if f == nil {
		return fiber.NewError(fiber.StatusNotFound, "no forecast stored for "+date)
	}

	return c.JSON(s.toResponse(f))
}

// toResponse renders the current-hour view of f. Hour values only make sense
// for today, but they are computed the same way for any date.
func (s *Server) toResponse(f *models.Forecast) ForecastResponse {
	now := s.now()
	temp, feelsLike := f.CurrentTemperatureAt(now)
	return ForecastResponse{
		Date:          f.Date,
		Condition:     f.Condition,
		ConditionText: models.Condition(f.Condition).Translate(),
		Season:        f.Season,
		Sunrise:       f.Sunrise,
		Sunset:        f.Sunset,
		SetEnd:        f.SetEnd,
		Temperature:   temp,
		FeelsLike:     feelsLike,
		Description:   f.DescriptionAt(now),
		Hours:         f.Hours,
	}
}

func (s *Server) today() string {
	return s.now().Format(dateLayout)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
