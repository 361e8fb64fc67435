package slogutil

import (
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// levelSilent is above every standard level.
const levelSilent = slog.Level(100)

// NewLogger creates a new slog.Logger with the human-readable apidiff format.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// New creates a logger for the given output format. Unknown formats fall back to human.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	if strings.EqualFold(format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return NewLogger(w, level)
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &slog.HandlerOptions{Level: levelSilent}))
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity converts CLI flags to a slog.Level.
// - verbose=true: info, or base if base is already lower (debug)
// - verbose=false: base
func LevelFromVerbosity(verbose bool, base slog.Level) slog.Level {
	if verbose && base > slog.LevelInfo {
		return slog.LevelInfo
	}
	return base
}
