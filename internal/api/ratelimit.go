package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/http/response"
	"github.com/notekeeperapp/notekeeper/internal/ratelimit"
)

// MsgTooManyRequests is the detail of every 429 response.
const MsgTooManyRequests = "Too many requests. Please try again later."

// rateLimitPrefix throttles requests whose path starts with prefix, keyed by
// client IP. Other requests pass through untouched.
func rateLimitPrefix(prefix string, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				limited := domainerrors.RateLimited(MsgTooManyRequests)
				response.Error(w, limited.HTTPStatus(), limited.Message, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
