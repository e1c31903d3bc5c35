// Package envelope - the uniform response wrapper for the API.
// Handlers never write raw payloads; every response carries a request
// id and a status so clients can correlate with server logs and
// branch without sniffing the payload shape.
package envelope

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Envelope wraps every API response.
type Envelope struct {
	// RequestID correlates the response with server logs
	RequestID string `json:"request_id"`

	// Status is "ok" or "error"
	Status string `json:"status"`

	// Data is the payload of a successful response
	Data any `json:"data,omitempty"`

	// Error is set on failed responses
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK wraps a payload in a success envelope.
func OK(requestID string, data any) *Envelope {
	return &Envelope{RequestID: requestID, Status: StatusOK, Data: data}
}

// Fail wraps an error code and message in an error envelope.
func Fail(requestID, code, message string) *Envelope {
	return &Envelope{
		RequestID: requestID,
		Status:    StatusError,
		Error:     &ErrorDetail{Code: code, Message: message},
	}
}

// NewRequestID generates a fresh request id.
func NewRequestID() string {
	return uuid.NewString()
}

// Write serializes the envelope to the response writer.
func Write(w http.ResponseWriter, status int, env *Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}
