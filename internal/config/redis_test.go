package config

import (
	"testing"
	"time"
)

func TestGetRedisConfig_FromEnvVars(t *testing.T) {
	t.Setenv("REDIS_ADDR", "testhost:6380")
	t.Setenv("REDIS_PASSWORD", "testpassword")
	t.Setenv("REDIS_DB", "5")

	cfg := GetRedisConfig(RedisConfig{Addr: "base:6379", TTL: time.Minute})

	if cfg.Addr != "testhost:6380" {
		t.Errorf("GetRedisConfig().Addr = %v, want %v", cfg.Addr, "testhost:6380")
	}

	if cfg.Password != "testpassword" {
		t.Errorf("GetRedisConfig().Password = %v, want %v", cfg.Password, "testpassword")
	}

	if cfg.DB != 5 {
		t.Errorf("GetRedisConfig().DB = %v, want %v", cfg.DB, 5)
	}

	if cfg.TTL != time.Minute {
		t.Errorf("GetRedisConfig().TTL = %v, want %v", cfg.TTL, time.Minute)
	}
}

func TestGetRedisConfig_KeepsFileValues(t *testing.T) {
	clearEnv(t)

	cfg := GetRedisConfig(RedisConfig{Addr: "cache:6379", DB: 2})

	if cfg.Addr != "cache:6379" {
		t.Errorf("GetRedisConfig().Addr = %v, want %v", cfg.Addr, "cache:6379")
	}

	if cfg.DB != 2 {
		t.Errorf("GetRedisConfig().DB = %v, want %v", cfg.DB, 2)
	}

	if cfg.TTL != 10*time.Minute {
		t.Errorf("GetRedisConfig().TTL = %v, want default %v", cfg.TTL, 10*time.Minute)
	}
}

func TestGetRedisConfig_InvalidDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "invalid")

	cfg := GetRedisConfig(RedisConfig{DB: 3})

	if cfg.DB != 3 {
		t.Errorf("GetRedisConfig().DB = %v, want %v (unparseable override ignored)", cfg.DB, 3)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "env var set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "env var not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}
