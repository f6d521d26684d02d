package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler discards output while still honouring the level, so
// IsDebugEnabled behaves the same in tests.
func NewTestHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})
}
