package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors, one per failure kind. Every *APIError wraps exactly one.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPrecondition      = errors.New("precondition failed")
	ErrAlreadyReviewed   = errors.New("already reviewed")
	ErrAuthentication    = errors.New("authentication failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("resource conflict")
	ErrInternalServer    = errors.New("internal server error")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	ID         string `json:"id,omitempty"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int, kind error) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        kind,
	}
}

func Validation(field, message string) *APIError {
	e := NewAPIError("validation_error", message, http.StatusBadRequest, ErrValidation)
	e.Field = field
	return e
}

func NotFound(resource, id string) *APIError {
	e := NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound, ErrNotFound)
	e.ID = id
	return e
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_transition", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusConflict, ErrInvalidTransition)
}

func Precondition(message string) *APIError {
	return NewAPIError("precondition_failed", message, http.StatusPreconditionFailed, ErrPrecondition)
}

func WorkerNotApproved(workerID string) *APIError {
	e := Precondition("worker is not approved for bookings")
	e.ID = workerID
	return e
}

func AlreadyReviewed(bookingID string) *APIError {
	e := NewAPIError("already_reviewed", "booking has already been reviewed", http.StatusConflict, ErrAlreadyReviewed)
	e.ID = bookingID
	return e
}

func Authentication(message string) *APIError {
	return NewAPIError("authentication_failed", message, http.StatusUnauthorized, ErrAuthentication)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized, ErrUnauthorized)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict, ErrConflict)
}

func BadRequest(message string) *APIError {
	return Validation("", message)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError, ErrInternalServer)
}

func IdempotencyConflict() *APIError {
	return Conflict("idempotency key already used with different request")
}

// As extracts the *APIError carried by err, if any.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
