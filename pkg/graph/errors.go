package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrAuthFailure        = errors.New("authentication failed")
	ErrMissingCredentials = errors.New("missing client credentials")
	ErrReauthRequired     = errors.New("re-authentication required")
	ErrAccessDenied       = errors.New("access denied")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrServerError        = errors.New("graph server error")
	ErrRateLimitExhausted = errors.New("rate limit retries exhausted")
)

// APIError is a non-success Graph response. It unwraps to one of the sentinel
// errors above when the status maps onto one.
type APIError struct {
	StatusCode int
	Status     string
	Code       string
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph request %s failed: %s: %s - %s", e.URL, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("graph request %s failed: %s", e.URL, e.Status)
}

func (e *APIError) Unwrap() error {
	return sentinelForStatus(e.StatusCode)
}

func sentinelForStatus(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrReauthRequired
	case http.StatusForbidden:
		return ErrAccessDenied
	case http.StatusNotFound, http.StatusGone:
		return ErrResourceNotFound
	case http.StatusBadRequest, http.StatusMethodNotAllowed, http.StatusNotAcceptable,
		http.StatusPreconditionFailed, http.StatusRequestEntityTooLarge,
		http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	}
	if statusCode >= 500 {
		return ErrServerError
	}
	return nil
}
