package logger

import (
	"log/slog"
	"os"
)

// NewConsoleHandler writes human-readable records to stderr for CLI use.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
