package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/decision-backend/internal/metrics"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type loggerMiddleware struct {
	Log       *slog.Logger
	ProjectID string
}

func NewLoggerMiddleware(log *slog.Logger, projectID string) *loggerMiddleware {
	return &loggerMiddleware{Log: log, ProjectID: projectID}
}

// LoggerMiddleware initializes a request-scoped logger with request context.
// This should be one of the first middlewares in the chain.
func (m *loggerMiddleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract request ID from Chi middleware (if present)
		requestID := chimiddleware.GetReqID(r.Context())

		// Create logger with request-level attributes
		enrichedLogger := m.Log.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)

		// Add logger to context
		ctx := logger.ToContext(r.Context(), enrichedLogger)
		ctx = logger.WithTrace(ctx, m.traceName(r.Header.Get("X-Cloud-Trace-Context")))

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveHTTPRequest(r.Method, status)
		enrichedLogger.Debug("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
	})
}

// traceName turns "TRACE_ID/SPAN_ID;o=1" into a Cloud Trace resource name.
func (m *loggerMiddleware) traceName(header string) string {
	if header == "" || m.ProjectID == "" {
		return ""
	}
	traceID, _, _ := strings.Cut(header, "/")
	if traceID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/traces/%s", m.ProjectID, traceID)
}
