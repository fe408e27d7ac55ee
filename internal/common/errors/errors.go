// Package errors provides standardized error handling for the admin HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"

	ErrCodeLoadFailed   ErrorCode = "LOAD_FAILED"
	ErrCodeUpdateFailed ErrorCode = "UPDATE_FAILED"
	ErrCodeTransport    ErrorCode = "TRANSPORT_ERROR"

	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeScreenNotFound ErrorCode = "SCREEN_NOT_FOUND"
	ErrCodeScreenClosed   ErrorCode = "SCREEN_CLOSED"
	ErrCodeTooManyScreens ErrorCode = "TOO_MANY_SCREENS"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithField attaches a metadata entry and returns the same error.
func (e *StandardError) WithField(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewUnauthenticatedError creates a non-retryable authentication error.
func NewUnauthenticatedError(details string) *StandardError {
	e := newError(ErrCodeUnauthenticated, "Authentication required", nil, false)
	e.Details = details
	return e
}

// NewLoadFailedError wraps a failed bulk read with the operator-facing message.
func NewLoadFailedError(message string, err error) *StandardError {
	return newError(ErrCodeLoadFailed, message, err, false)
}

// NewUpdateFailedError wraps a failed status write. The operator may retry manually.
func NewUpdateFailedError(message string, err error) *StandardError {
	return newError(ErrCodeUpdateFailed, message, err, true)
}

// NewTransportError creates a retryable connectivity error.
func NewTransportError(service string, err error) *StandardError {
	return newError(ErrCodeTransport, fmt.Sprintf("%s is unavailable", service), err, true)
}

// NewValidationError creates a non-retryable validation error.
func NewValidationError(details string, problems []string) *StandardError {
	e := newError(ErrCodeValidationFailed, "Validation failed", nil, false)
	e.Details = details
	if len(problems) > 0 {
		e.WithField("problems", problems)
	}
	return e
}

// NewInvalidRequestError reports a malformed request body or parameter.
func NewInvalidRequestError(details string) *StandardError {
	e := newError(ErrCodeInvalidRequest, "Invalid request", nil, false)
	e.Details = details
	return e
}

// NewInvalidStatusError reports a status target the action does not support.
func NewInvalidStatusError(status string) *StandardError {
	e := newError(ErrCodeInvalidStatus, "Unsupported status transition", nil, false)
	e.Details = fmt.Sprintf("status: %s", status)
	return e
}

// NewNotFoundError creates a non-retryable resource lookup error.
func NewNotFoundError(resource, id string) *StandardError {
	e := newError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), nil, false)
	e.Details = fmt.Sprintf("id: %s", id)
	return e
}

// NewScreenNotFoundError reports an unknown or expired waitlist screen.
func NewScreenNotFoundError(screenID string) *StandardError {
	e := newError(ErrCodeScreenNotFound, "Waitlist screen not found or expired", nil, false)
	e.Details = fmt.Sprintf("screenId: %s", screenID)
	return e
}

// NewScreenClosedError reports an action on a torn down screen.
func NewScreenClosedError(screenID string) *StandardError {
	e := newError(ErrCodeScreenClosed, "Waitlist screen has been closed", nil, false)
	e.Details = fmt.Sprintf("screenId: %s", screenID)
	return e
}

// NewTooManyScreensError reports exhaustion of the per-process screen budget.
func NewTooManyScreensError(limit int) *StandardError {
	e := newError(ErrCodeTooManyScreens, "Too many open waitlist screens", nil, true)
	e.Details = fmt.Sprintf("limit: %d", limit)
	return e
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert failed", err, true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	e := newError(ErrCodeQueryExecutionFailed, "Database query execution error", err, true)
	if err != nil {
		e.Details = fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error())
	}
	return e
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 3. Utility Functions
// ==========================

// HTTPStatus maps an error code to the status written on the wire.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeValidationFailed, ErrCodeInvalidRequest, ErrCodeInvalidStatus:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeScreenNotFound:
		return http.StatusNotFound
	case ErrCodeScreenClosed:
		return http.StatusGone
	case ErrCodeTooManyScreens:
		return http.StatusTooManyRequests
	case ErrCodeTransport:
		return http.StatusServiceUnavailable
	case ErrCodeLoadFailed, ErrCodeUpdateFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnauthenticated:
		return "AUTH"
	case ErrCodeValidationFailed, ErrCodeInvalidRequest, ErrCodeInvalidStatus:
		return "VALIDATION"
	case ErrCodeNotFound, ErrCodeScreenNotFound, ErrCodeScreenClosed, ErrCodeTooManyScreens:
		return "RESOURCE"
	case ErrCodeLoadFailed, ErrCodeUpdateFailed, ErrCodeTransport:
		return "REMOTE"
	case ErrCodeDatabaseInsertFailed, ErrCodeQueryExecutionFailed:
		return "DATABASE"
	default:
		return "INTERNAL"
	}
}

// AsStandard normalizes err into a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
