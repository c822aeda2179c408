// Package response writes JSON responses for the plain chi handlers that sit
// outside huma: rate limiting, unknown routes and panics. Errors use the same
// {"detail": "..."} body as the huma operations.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, detail string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Detail: detail}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, detail string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, detail, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, detail string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, detail, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, detail string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, detail, logger)
}
