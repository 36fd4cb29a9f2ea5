// Package response defines the JSON envelope every API answer is wrapped in.
package response

import (
	"net/http"
	"time"

	"game-data-hub/internal/utils"
)

// StandardResponse is the envelope shared by success and error answers
type StandardResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
	Timestamp     time.Time   `json:"timestamp"`
}

// ErrorInfo carries the AppError code and text
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func envelope(correlationID string) *StandardResponse {
	return &StandardResponse{CorrelationID: correlationID, Timestamp: time.Now().UTC()}
}

// Success wraps a payload
func Success(data interface{}, correlationID string) *StandardResponse {
	r := envelope(correlationID)
	r.Success = true
	r.Data = data
	return r
}

// Message answers a mutation that has nothing to return
func Message(message, correlationID string) *StandardResponse {
	r := envelope(correlationID)
	r.Success = true
	r.Message = message
	return r
}

// Failure builds an error envelope from its parts
func Failure(code, message, details, correlationID string) *StandardResponse {
	r := envelope(correlationID)
	r.Error = &ErrorInfo{Code: code, Message: message, Details: details}
	return r
}

// Unauthorized is the 401 envelope used by the auth middleware
func Unauthorized(message, correlationID string) *StandardResponse {
	if message == "" {
		message = "Unauthorized access"
	}
	return Failure(utils.ErrCodeUnauthorized, message, "", correlationID)
}

// FromError maps err to an HTTP status and envelope. Errors that are not an
// AppError are reported as a generic 500 so storage details never leak.
func FromError(err error, correlationID string) (int, *StandardResponse) {
	appErr, ok := utils.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError,
			Failure(utils.ErrCodeInternalError, "An internal error occurred", "", correlationID)
	}
	return utils.GetErrorStatus(appErr), Failure(appErr.Code, appErr.Message, appErr.Details, correlationID)
}
