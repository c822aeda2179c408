package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 response. The stored token has
// already been cleared when it is returned.
var ErrUnauthorized = errors.New("Unauthorized") //nolint:staticcheck // user-facing message

// DefaultErrorMessage is used when a failed response carries no detail.
const DefaultErrorMessage = "Request failed"

// Error is a non-2xx, non-401 response from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// wrapTransport annotates a network level failure with the request it belongs to.
func wrapTransport(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w", method, path, err)
}
