package apperr

import (
	"errors"
	"fmt"
)

// Error codes returned by the lifecycle, criteria and interest logic.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is a typed application error. The handler layer maps codes to
// HTTP statuses; the logic layer never returns bare strings for expected
// failures.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code.
func New(code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an AppError around a cause.
func Wrap(code string, cause error, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Validation reports malformed input, rejected before any mutation.
func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidation, format, args...)
}

// InvalidTransition reports a state machine guard failure, naming both states.
func InvalidTransition(from, requested string) *AppError {
	return New(CodeInvalidTransition, "cannot transition from %s to %s", from, requested)
}

// ConcurrencyConflict reports an optimistic-lock version mismatch. The
// caller should re-read and retry the whole operation.
func ConcurrencyConflict(entity string, id int64) *AppError {
	return New(CodeConcurrencyConflict, "%s %d was modified concurrently, re-read and retry", entity, id)
}

// NotFound reports an unknown entity id.
func NotFound(entity string, id int64) *AppError {
	return New(CodeNotFound, "%s %d not found", entity, id)
}

// Forbidden reports an actor acting outside its authorization.
func Forbidden(format string, args ...interface{}) *AppError {
	return New(CodeForbidden, format, args...)
}

// Internal wraps an unexpected persistence or infrastructure failure.
func Internal(cause error, format string, args ...interface{}) *AppError {
	return Wrap(CodeInternal, cause, format, args...)
}

// CodeOf extracts the application error code, or CodeInternal for
// untyped errors.
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// Retryable reports whether the caller may retry the operation unchanged.
// Only concurrency conflicts qualify; everything else is terminal for the
// request.
func Retryable(err error) bool {
	return IsCode(err, CodeConcurrencyConflict)
}
