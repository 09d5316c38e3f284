package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is built once at startup and passed to every component that needs it
type Config struct {
	Weather  WeatherConfig  `yaml:"weather"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// WeatherConfig controls the upstream API and the refresh schedule
type WeatherConfig struct {
	APIURL         string        `yaml:"api_url"`
	APIKey         string        `yaml:"-"` // YANDEX_WEATHER_API_KEY only
	UpdateInterval time.Duration `yaml:"update_interval"`
	ErrorInterval  time.Duration `yaml:"error_interval"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

// Default returns the configuration used for anything the file leaves out
func Default() *Config {
	return &Config{
		Weather: WeatherConfig{
			UpdateInterval: 30 * time.Minute,
			ErrorInterval:  time.Minute,
			FetchTimeout:   10 * time.Second,
			RateLimit:      1,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at configPath, applies environment overrides and validates the result
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Weather.APIKey = strings.TrimSpace(os.Getenv("YANDEX_WEATHER_API_KEY"))

	if dsn := GetDatabaseDSN(); dsn != "" {
		c.Database.DSN = dsn
	}

	c.Redis = GetRedisConfig(c.Redis)
}

func (c *Config) validate() error {
	if c.Weather.APIURL == "" {
		return fmt.Errorf("weather.api_url cannot be empty")
	}
	if c.Weather.APIKey == "" {
		return fmt.Errorf("environment variable YANDEX_WEATHER_API_KEY must be set")
	}
	if c.Weather.UpdateInterval <= 0 {
		return fmt.Errorf("weather.update_interval must be positive")
	}
	if c.Weather.ErrorInterval <= 0 {
		return fmt.Errorf("weather.error_interval must be positive")
	}
	if c.Weather.ErrorInterval >= c.Weather.UpdateInterval {
		return fmt.Errorf("weather.error_interval (%s) must be shorter than weather.update_interval (%s)",
			c.Weather.ErrorInterval, c.Weather.UpdateInterval)
	}
	if c.Weather.FetchTimeout <= 0 {
		return fmt.Errorf("weather.fetch_timeout must be positive")
	}
	if c.Weather.RateLimit <= 0 {
		return fmt.Errorf("weather.rate_limit must be positive")
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server.host cannot be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format %q (allowed: json, text)", c.Log.Format)
	}

	return nil
}
