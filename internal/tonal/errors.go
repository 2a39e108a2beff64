package tonal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredentials means no username or password was configured.
	ErrMissingCredentials = errors.New("tonal: TONAL_USERNAME and TONAL_PASSWORD are required")
	// ErrLoginFailed means the auth server rejected the configured credentials.
	ErrLoginFailed = errors.New("tonal: login rejected")
	// ErrUnauthorized matches any 401 or 403 from the platform.
	ErrUnauthorized = errors.New("tonal: unauthorized")
	// ErrNotFound matches a 404 from the platform.
	ErrNotFound = errors.New("tonal: not found")
)

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tonal: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
