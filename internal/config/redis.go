package config

import (
	"os"
	"strconv"
	"time"
)

// RedisConfig configures the shared forecast cache. An empty Addr selects the in-process cache.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// GetRedisConfig returns base with any REDIS_* environment overrides applied
func GetRedisConfig(base RedisConfig) RedisConfig {
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			base.DB = parsed
		}
	}

	base.Addr = getEnv("REDIS_ADDR", base.Addr)
	base.Password = getEnv("REDIS_PASSWORD", base.Password)

	if base.TTL <= 0 {
		base.TTL = 10 * time.Minute
	}

	return base
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
