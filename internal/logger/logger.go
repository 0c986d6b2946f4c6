// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTint = "tint" // colored, human-oriented console output
)

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text", "json" or "tint"

	// Output defaults to os.Stderr
	Output io.Writer
}

// NewLogger creates a configured slog.Logger.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	// Add a source location at debug level
	addSource := cfg.Level <= slog.LevelDebug

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.Level, AddSource: addSource})
	case FormatTint:
		handler = tint.NewHandler(out, &tint.Options{
			Level:      cfg.Level,
			AddSource:  addSource,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level, AddSource: addSource})
	}

	return slog.New(handler)
}

// ParseLevel maps DEBUG, INFO, WARN, WARNING and ERROR (any case) to a level.
// Unknown values return fallback.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return fallback
}

