package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	"weathercache/internal/config"

	"github.com/lmittmann/tint"
)

// New returns the application logger. The "text" format is meant for a terminal.
func New(cfg config.LogConfig, appName string) (*slog.Logger, error) {
	return newLogger(os.Stdout, cfg, appName)
}

func newLogger(w io.Writer, cfg config.LogConfig, appName string) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(cfg.Format, "text") {
		h := tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName), nil
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(h).With("app", appName), nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}
