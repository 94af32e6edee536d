package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/kupfer451/poke-api/internal/config"
)

// New creates a preconfigured slog.Logger writing JSON at info level.
func New() *slog.Logger {
	return NewWithLevel(defaultLevel)
}

const defaultLevel = "info"

// NewWithLevel creates a JSON slog.Logger for the given level name.
// Unknown names fall back to info.
func NewWithLevel(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

func newFromConfig(cfg *config.Config) *slog.Logger {
	return NewWithLevel(cfg.LogLevel)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
