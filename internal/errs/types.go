package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type RateLimitError struct {
	ErrorMessage
}

// DatabaseError wraps a storage driver failure. Operation is one of
// create, read, update, delete.
type DatabaseError struct {
	Operation string
	Message   string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("database %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("database %s: %s: %v", e.Operation, e.Message, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failure from a hosted API. Message is safe
// to show to the caller.
type ExternalServiceError struct {
	Service   string
	Transient bool
	Message   string
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Message, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type EncryptionError struct {
	Message string
	Err     error
}

func (e *EncryptionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *EncryptionError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewRateLimitError() *RateLimitError {
	return &RateLimitError{
		ErrorMessage: ErrorMessage{Message: "too many requests"},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{Operation: operation, Message: message, Err: err}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service:   service,
		Transient: transient,
		Message:   message,
		Err:       err,
	}
}

func NewEncryptionError(message string, err error) *EncryptionError {
	return &EncryptionError{Message: message, Err: err}
}
