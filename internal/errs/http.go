package errs

import (
	"errors"
	"net/http"
)

// Status is the HTTP rendering of an error: status code, stable machine
// code and a message safe to return to clients.
type Status struct {
	HTTP    int
	Code    string
	Message string
}

const (
	CodeNotFound           = "not_found"
	CodeAlreadyExists      = "already_exists"
	CodeInvalidInput       = "invalid_input"
	CodeRateLimited        = "rate_limited"
	CodeServiceUnavailable = "service_unavailable"
	CodeInternal           = "internal_error"
)

func ToStatus(err error) Status {
	var (
		notFound   *NotFoundError
		exists     *AlreadyExistsError
		validation *ValidationError
		rateLimit  *RateLimitError
		database   *DatabaseError
		external   *ExternalServiceError
		encryption *EncryptionError
	)

	switch {
	case errors.As(err, &notFound):
		return Status{http.StatusNotFound, CodeNotFound, notFound.Message}
	case errors.As(err, &exists):
		return Status{http.StatusConflict, CodeAlreadyExists, exists.Message}
	case errors.As(err, &validation):
		return Status{http.StatusBadRequest, CodeInvalidInput, validation.Message}
	case errors.As(err, &rateLimit):
		return Status{http.StatusTooManyRequests, CodeRateLimited, rateLimit.Message}
	case errors.As(err, &external):
		status := http.StatusBadGateway
		if external.Transient {
			status = http.StatusServiceUnavailable
		}
		msg := external.Message
		if msg == "" {
			msg = "Service temporarily unavailable"
		}
		return Status{status, CodeServiceUnavailable, msg}
	case errors.As(err, &database), errors.As(err, &encryption):
		return Status{http.StatusInternalServerError, CodeInternal, "An error occurred"}
	default:
		return Status{http.StatusInternalServerError, CodeInternal, "An unexpected error occurred"}
	}
}
