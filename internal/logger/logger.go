// Package logger builds the process slog.Logger: a text or JSON handler on
// stderr, trace correlation, and an optional OpenTelemetry log bridge.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler stack.
type Options struct {
	Level  string
	Format string
	// Verbose forces debug level.
	Verbose bool
	// OTel adds the OpenTelemetry log bridge alongside the local handler.
	OTel   bool
	Writer io.Writer
}

// New builds a logger and installs it as the slog default.
func New(opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level}
	var local slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		local = slog.NewJSONHandler(w, hopts)
	} else {
		local = slog.NewTextHandler(w, hopts)
	}

	var handler slog.Handler = NewTraceContextHandler(local)
	if opts.OTel {
		handler = NewMultiHandler(handler, NewOTelHandler(level))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
