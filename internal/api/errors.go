package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// APIError implements huma.StatusError. Every error response body is
// {"detail": "..."}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status int
	Detail string `json:"detail" doc:"Human-readable error message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render domain and store errors as
// {"detail"} responses with their mapped status. Call it once, before
// serving requests; huma.NewError is package global.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{status: domainErr.HTTPStatus(), Detail: domainErr.Message}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return &APIError{status: storeErr.HTTPCode(), Detail: storeErr.Message}
		}
	}

	// Request validation failures carry one huma.ErrorDetail per field.
	var details []string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			details = append(details, detail.Error())
		}
	}
	if len(details) > 0 {
		message += ": " + strings.Join(details, "; ")
	}

	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	return &APIError{status: status, Detail: message}
}
