package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

// TestLogger returns a logger that discards output.
func TestLogger() *slog.Logger {
	return logger.New("debug", logger.NewTestHandler)
}

// TestCtx returns a context carrying a test logger.
func TestCtx() context.Context {
	return logger.ToContext(context.Background(), TestLogger())
}
