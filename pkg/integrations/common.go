package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the requested resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401/403 responses, usually a bad API key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("decode response")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
