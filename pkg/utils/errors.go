package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a capture failure so callers can decide whether a
// retry makes sense and how to map the failure onto an HTTP status.
type ErrorKind int

const (
	// KindInput marks malformed caller input (bad URL). Not retryable.
	KindInput ErrorKind = iota
	// KindUnsupportedSource marks denylisted domains and thin content with
	// no browser fallback. Not retryable without a configuration change.
	KindUnsupportedSource
	// KindFetch marks network/timeout/HTTP failures after exhausting
	// retries. Retryable later.
	KindFetch
	// KindLLMTransport marks a failed call to the model backend. Retryable.
	KindLLMTransport
	// KindLLMOutput marks model output that violates the expected contract.
	// Retrying will not help.
	KindLLMOutput
	// KindPersistence marks database constraint violations, typically a
	// concurrent duplicate capture.
	KindPersistence
)

// CaptureError is the application error type carried through the pipeline.
// Each stage raises its specific kind; the orchestrator never downgrades it.
type CaptureError struct {
	Kind    ErrorKind `json:"-"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Err     error     `json:"-"`
}

func (e *CaptureError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// NewInvalidURLError reports malformed caller input.
func NewInvalidURLError(detail string) *CaptureError {
	return &CaptureError{
		Kind:    KindInput,
		Code:    http.StatusBadRequest,
		Message: "Invalid URL",
		Detail:  detail,
	}
}

// NewUnsupportedSourceError reports a source that cannot be captured as
// configured (denylisted domain, or JS-gated content without a browser).
func NewUnsupportedSourceError(detail string) *CaptureError {
	return &CaptureError{
		Kind:    KindUnsupportedSource,
		Code:    http.StatusUnprocessableEntity,
		Message: "Source not supported",
		Detail:  detail,
	}
}

// NewFetchError reports an exhausted fetch attempt, carrying the last cause.
func NewFetchError(detail string, cause error) *CaptureError {
	return &CaptureError{
		Kind:    KindFetch,
		Code:    http.StatusUnprocessableEntity,
		Message: "Fetch failed",
		Detail:  detail,
		Err:     cause,
	}
}

// NewLLMTransportError reports a failed call to the model backend.
func NewLLMTransportError(detail string, cause error) *CaptureError {
	return &CaptureError{
		Kind:    KindLLMTransport,
		Code:    http.StatusBadGateway,
		Message: "LLM request failed",
		Detail:  detail,
		Err:     cause,
	}
}

// NewLLMOutputError reports model output that does not conform to the
// expected shape.
func NewLLMOutputError(detail string) *CaptureError {
	return &CaptureError{
		Kind:    KindLLMOutput,
		Code:    http.StatusInternalServerError,
		Message: "LLM returned malformed output",
		Detail:  detail,
	}
}

// NewPersistenceError reports a database write failure.
func NewPersistenceError(detail string, cause error) *CaptureError {
	return &CaptureError{
		Kind:    KindPersistence,
		Code:    http.StatusConflict,
		Message: "Persistence failed",
		Detail:  detail,
		Err:     cause,
	}
}

// KindOf extracts the error kind from err, unwrapping as needed.
func KindOf(err error) (ErrorKind, bool) {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// HTTPStatus maps err to the status code an HTTP caller should see.
// Unclassified errors become 500s.
func HTTPStatus(err error) int {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}
