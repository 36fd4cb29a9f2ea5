// Package utils holds the AppError taxonomy shared by services, controllers
// and middleware.
package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in AppError.Code and in the response envelope
const (
	ErrCodeValidationFailed  = "VALIDATION_ERROR"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Storage
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeExportFailed  = "EXPORT_FAILED"

	ErrCodeGenerationFailed = "GENERATION_FAILED"

	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Request shape
	ErrCodeInvalidID         = "INVALID_ID"
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidParameters = "INVALID_PARAMETERS"
)

type codeInfo struct {
	status  int
	message string
}

var codeTable = map[string]codeInfo{
	ErrCodeValidationFailed:  {http.StatusUnprocessableEntity, "Validation failed"},
	ErrCodeUnauthorized:      {http.StatusUnauthorized, "Unauthorized access"},
	ErrCodeForbidden:         {http.StatusForbidden, "Access forbidden"},
	ErrCodeNotFound:          {http.StatusNotFound, "Resource not found"},
	ErrCodeConflict:          {http.StatusConflict, "Resource conflict"},
	ErrCodeInternalError:     {http.StatusInternalServerError, "Internal server error"},
	ErrCodeRateLimitExceeded: {http.StatusTooManyRequests, "Rate limit exceeded"},

	ErrCodeDatabaseError: {http.StatusInternalServerError, "Database error"},
	ErrCodeExportFailed:  {http.StatusBadGateway, "Export failed"},

	ErrCodeGenerationFailed: {http.StatusInternalServerError, "Code generation failed"},

	ErrCodeInvalidCredentials: {http.StatusUnauthorized, "Invalid credentials"},

	ErrCodeInvalidID:         {http.StatusBadRequest, "Invalid identifier"},
	ErrCodeInvalidJSON:       {http.StatusBadRequest, "Invalid JSON format"},
	ErrCodeInvalidParameters: {http.StatusBadRequest, "Invalid parameters"},
}

// AppError is the error every service returns to the HTTP layer
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder assembles an AppError field by field
type ErrorBuilder struct {
	err AppError
}

func NewErrorBuilder(code string) *ErrorBuilder {
	return &ErrorBuilder{err: AppError{Code: code}}
}

func (eb *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	eb.err.Message = message
	return eb
}

func (eb *ErrorBuilder) WithDetails(details string) *ErrorBuilder {
	eb.err.Details = details
	return eb
}

func (eb *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	eb.err.Cause = cause
	return eb
}

// Build returns the error, filling the message from the code table when
// none was given.
func (eb *ErrorBuilder) Build() *AppError {
	out := eb.err
	if out.Message == "" {
		out.Message = "Unknown error"
		if info, ok := codeTable[out.Code]; ok {
			out.Message = info.message
		}
	}
	return &out
}

// NewDatabaseError wraps a storage failure. The cause is kept for logging and
// never rendered.
func NewDatabaseError(cause error, details string) *AppError {
	return NewErrorBuilder(ErrCodeDatabaseError).
		WithCause(cause).
		WithDetails(details).
		Build()
}

// NewNotFoundError reports a missing resource, e.g. "Table not found: 7".
func NewNotFoundError(resource string, id string) *AppError {
	message := resource + " not found"
	if id != "" {
		message += ": " + id
	}
	return NewErrorBuilder(ErrCodeNotFound).WithMessage(message).Build()
}

func NewConflictError(resource string, details string) *AppError {
	return NewErrorBuilder(ErrCodeConflict).
		WithMessage(resource + " conflict").
		WithDetails(details).
		Build()
}

func NewValidationError(message string, details string) *AppError {
	return NewErrorBuilder(ErrCodeValidationFailed).
		WithMessage(message).
		WithDetails(details).
		Build()
}

func NewAuthorizationError(message string) *AppError {
	return NewErrorBuilder(ErrCodeForbidden).WithMessage(message).Build()
}

// NewGenerationError wraps a generator failure for the named format.
func NewGenerationError(cause error, format string) *AppError {
	return NewErrorBuilder(ErrCodeGenerationFailed).
		WithCause(cause).
		WithDetails(format).
		Build()
}

// AsAppError extracts the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType reports whether err carries the given code
func IsErrorType(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// GetErrorStatus returns the HTTP status for err, 500 for anything unknown
func GetErrorStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		if info, exists := codeTable[appErr.Code]; exists {
			return info.status
		}
	}
	return http.StatusInternalServerError
}
