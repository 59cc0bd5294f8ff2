package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest     = errors.New("hbnb: bad request")
	ErrUnauthorized   = errors.New("hbnb: unauthorized")
	ErrForbidden      = errors.New("hbnb: forbidden")
	ErrNotFound       = errors.New("hbnb: not found")
	ErrMissingPlaceID = errors.New("missing place id")
)

// APIError is a non-success response from the HBnB backend.
// It unwraps to the sentinel matching its status code, if any.
type APIError struct {
	StatusCode int
	StatusText string
	Message    string // "error" or "message" field of the body, when present
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hbnb: status %d %s: %s", e.StatusCode, e.StatusText, e.Message)
	}
	return fmt.Sprintf("hbnb: status %d %s", e.StatusCode, e.StatusText)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// IsAPIError reports whether err carries a backend status (as opposed to a
// transport failure).
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
