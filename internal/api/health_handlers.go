package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerRootRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRoot",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "API info",
		Description: "Returns the API name, version and documentation path",
		Tags:        []string{"Health"},
	}, s.handleRoot)
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// RootResponse describes the API.
type RootResponse struct {
	Name    string `json:"name" doc:"API name"`
	Version string `json:"version" doc:"Server version"`
	Docs    string `json:"docs" doc:"Path of the interactive API documentation"`
}

// RootOutput wraps the root response for Huma.
type RootOutput struct {
	Body RootResponse
}

func (s *Server) handleRoot(_ context.Context, _ *struct{}) (*RootOutput, error) {
	return &RootOutput{
		Body: RootResponse{
			Name:    AppName,
			Version: s.opts.Version,
			Docs:    "/docs",
		},
	}, nil
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"search":   s.checkSearchIndex(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase pings the store.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check: database ping failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Message: "database unreachable"}
	}
	return ComponentHealth{Status: "healthy", Latency: time.Since(start).String()}
}

// checkSearchIndex reports the full-text index. A disabled index is healthy:
// searches use the database fallback.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services.Search == nil || !s.services.Search.IndexEnabled() {
		return ComponentHealth{Status: "healthy", Message: "index disabled, using database search"}
	}

	count, err := s.services.Search.IndexedNotes()
	if err != nil {
		s.logger.Warn("health check: search index unavailable", "error", err)
		return ComponentHealth{Status: "degraded", Message: "index unavailable"}
	}
	return ComponentHealth{Status: "healthy", Message: strconv.FormatUint(count, 10) + " notes indexed"}
}
