package models

import "time"

// Capture result statuses.
const (
	CaptureStatusSuccess       = "success"
	CaptureStatusAlreadyExists = "already_exists"
)

// CaptureResult is the outcome of one capture invocation, identical for the
// CLI and the HTTP endpoint.
type CaptureResult struct {
	Status                string  `json:"status"`
	RoleID                int64   `json:"role_id"`
	Company               string  `json:"company"`
	Title                 string  `json:"title"`
	SkillsExtracted       int     `json:"skills_extracted"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
