package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"weathercache/internal/config"
	"weathercache/internal/metrics"
	"weathercache/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// APIKeyHeader carries the Yandex Weather API key
const APIKeyHeader = "X-Yandex-API-Key"

const maxBodySize = 4 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("hour", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 0 && n <= 23
	})
	return v
}

// YandexClient is a client for the Yandex Weather forecast API
type YandexClient struct {
	client  *http.Client
	url     string
	apiKey  string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewYandexClient creates a client for the forecast endpoint configured in cfg
func NewYandexClient(cfg config.WeatherConfig, logger *slog.Logger) *YandexClient {
	logger = logger.With("component", "yandex_client")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yandex-weather",
		MaxRequests: 1,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &YandexClient{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		url:     cfg.APIURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker: breaker,
		logger:  logger,
	}
}

// FetchForecast downloads the forecast document and returns it validated
func (c *YandexClient) FetchForecast(ctx context.Context) (*models.Poll, error) {
	start := time.Now()
	poll, err := c.fetch(ctx)
	metrics.RecordUpstreamRequest(time.Since(start), err)
	return poll, err
}

func (c *YandexClient) fetch(ctx context.Context) (*models.Poll, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait canceled: %w", ErrUpstreamFetch, err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", ErrUpstreamFetch)
	}

	c.logger.Debug("response from upstream", "body", string(body))

	return ParseResponse(body)
}

func (c *YandexClient) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrUpstreamFetch, err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch forecast: %w", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUpstreamFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{
			Kind:       ErrUpstreamFetch,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        errors.New("API error"),
		}
	}

	return body, nil
}

// ParseResponse decodes and validates an upstream forecast document
func ParseResponse(body []byte) (*models.Poll, error) {
	var resp models.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ResponseError{
			Kind: ErrMalformedResponse,
			Body: body,
			Err:  fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if err := validate.Struct(resp); err != nil {
		return nil, &ResponseError{
			Kind: ErrMalformedResponse,
			Body: body,
			Err:  err,
		}
	}

	return &models.Poll{
		Condition: resp.Fact.Condition,
		Season:    resp.Fact.Season,
		Days:      resp.Forecasts,
		Raw:       body,
	}, nil
}
