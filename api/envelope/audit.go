// Package envelope - request audit records.
package envelope

import (
	"time"

	"go.uber.org/zap"
)

// Audit is the per-request record emitted by the server's logging
// middleware.
type Audit struct {
	RequestID  string `json:"request_id"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

// NewAudit captures the request side of an audit record.
func NewAudit(requestID, method, path, remoteAddr, userAgent string) Audit {
	return Audit{
		RequestID:  requestID,
		Method:     method,
		Path:       path,
		RemoteAddr: remoteAddr,
		UserAgent:  userAgent,
	}
}

// Finish records the response side.
func (a *Audit) Finish(status int, d time.Duration) {
	a.Status = status
	a.DurationMs = d.Milliseconds()
}

// Fields renders the record as structured log fields.
func (a Audit) Fields() []zap.Field {
	return []zap.Field{
		zap.String("request_id", a.RequestID),
		zap.String("method", a.Method),
		zap.String("path", a.Path),
		zap.String("remote_addr", a.RemoteAddr),
		zap.String("user_agent", a.UserAgent),
		zap.Int("status", a.Status),
		zap.Int64("duration_ms", a.DurationMs),
	}
}
