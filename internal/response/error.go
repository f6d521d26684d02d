package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	LogError(r, err)
	st := errs.ToStatus(err)
	h.WriteError(w, r, st.HTTP, st.Code, st.Message)
}

// LogError logs err on the request logger at a level matching its type.
func LogError(r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		validation *errs.ValidationError
		rateLimit  *errs.RateLimitError
		database   *errs.DatabaseError
		external   *errs.ExternalServiceError
		encryption *errs.EncryptionError
	)
	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
	case errors.As(err, &rateLimit):
		log.Warn("rate limited")
	case errors.As(err, &database):
		log.Error("database error", "operation", database.Operation, "error", database.Error())
	case errors.As(err, &external):
		level := slog.LevelError
		if external.Transient {
			level = slog.LevelWarn
		}
		log.Log(r.Context(), level, "external service error",
			"service", external.Service,
			"transient", external.Transient,
			"error", external.Error())
	case errors.As(err, &encryption):
		log.Error("encryption error", "error", encryption.Error())
	default:
		log.Error("unexpected error", "error", err, "type", fmt.Sprintf("%T", err))
	}
}
