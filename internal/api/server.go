// Package api provides the HTTP API server and handlers for NoteKeeper.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notekeeperapp/notekeeper/internal/http/response"
	"github.com/notekeeperapp/notekeeper/internal/ratelimit"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// AppName is reported by the root endpoint and the OpenAPI document.
const AppName = "NoteKeeper API"

// Options configures the HTTP server.
type Options struct {
	Version     string
	CORSOrigins []string

	// AuthRateLimit is the number of /api/auth/* requests allowed per minute
	// per client IP. Zero disables the limit.
	AuthRateLimit int
	AuthRateBurst int

	// Registry receives the HTTP metrics and is served on /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	opts            Options
	authRateLimiter *ratelimit.KeyedRateLimiter
	metrics         *httpMetrics
	registry        *prometheus.Registry
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
		opts:     opts,
		registry: opts.Registry,
		metrics:  newHTTPMetrics(opts.Registry),
	}
	if opts.AuthRateLimit > 0 {
		burst := opts.AuthRateBurst
		if burst <= 0 {
			burst = opts.AuthRateLimit
		}
		s.authRateLimiter = ratelimit.PerInterval(opts.AuthRateLimit, time.Minute, burst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(s.metrics.middleware)
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.authRateLimiter != nil {
		s.router.Use(rateLimitPrefix("/api/auth/", s.authRateLimiter, s.logger))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not Found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method Not Allowed", s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.api = humachi.New(s.router, NewHumaConfig(s.opts.Version))
	RegisterErrorHandler()

	s.registerRootRoutes()
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerChapterRoutes()
	s.registerNoteRoutes()
	s.registerTagRoutes()
}

// NewHumaConfig returns the huma configuration shared by the server and tests.
func NewHumaConfig(version string) huma.Config {
	config := huma.DefaultConfig(AppName, version)
	config.Info.Description = "Books, chapters and rich-text notes."
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	return config
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
