package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for consistent error handling across the console.

// APIError is any failure crossing the transport boundary.
// Status is the HTTP status code, or 0 for network-level failures
// (DNS, connection refused, timeout). Detail is display-ready and is
// computed once at the transport boundary, never re-derived downstream.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Detail)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is an HTTP 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsNetworkError reports whether err never reached the server.
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}

// ErrorDetail extracts the display string for err, preferring the
// server-supplied detail over the generic fallback.
func ErrorDetail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// ErrValidation indicates a client-side validation failure, reported
// before any network call is made.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}
