// Package httpapi exposes the access layer over REST.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/points"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/search"
)

// ServiceName is reported by the root endpoint.
const ServiceName = "qdrant-fastapi"

// Tracer continues incoming traces. *tracer.Tracer satisfies it.
type Tracer interface {
	ExtractHTTP(ctx context.Context, h http.Header) context.Context
}

// Deps are the components served by the API.
type Deps struct {
	Collections *collections.Registry
	Points      *points.Store
	Search      *search.Engine
	Health      *health.Monitor

	Logger  *zap.Logger
	Tracer  Tracer
	Config  Config
	Version string

	// Mode reports the configured connection mode for the root endpoint.
	Mode func() string
}

// Server holds the handlers.
type Server struct {
	collections *collections.Registry
	points      *points.Store
	search      *search.Engine
	health      *health.Monitor

	logger  *zap.Logger
	tracer  Tracer
	cfg     Config
	version string
	mode    func() string
}

// NewServer returns a Server. A nil logger discards request logs.
func NewServer(d Deps) *Server {
	cfg := d.Config
	cfg.ApplyDefaults()

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := d.Version
	if version == "" {
		version = "dev"
	}
	return &Server{
		collections: d.Collections,
		points:      d.Points,
		search:      d.Search,
		health:      d.Health,
		logger:      logger,
		tracer:      d.Tracer,
		cfg:         cfg,
		version:     version,
		mode:        d.Mode,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLog(s.logger))
	r.Use(traceContext(s.tracer))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)

	r.Route(s.cfg.APIPrefix, func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", s.handleListCollections)
			r.Post("/", s.handleCreateCollection)
			r.Get("/{name}", s.handleGetCollection)
			r.Delete("/{name}", s.handleDeleteCollection)

			r.Route("/{name}/points", func(r chi.Router) {
				r.Post("/", s.handleUpsertPoint)
				r.Post("/batch", s.handleUpsertBatch)
				r.Post("/delete", s.handleDeletePoints)
				r.Get("/{id}", s.handleGetPoint)
				r.Delete("/{id}", s.handleDeletePoint)
			})
			r.Post("/{name}/search", s.handleSearch)
		})
	})
	return r
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	info := map[string]any{
		"service":    ServiceName,
		"version":    s.version,
		"api_prefix": s.cfg.APIPrefix,
		"health":     "/health",
	}
	if s.mode != nil {
		info["mode"] = s.mode()
	}
	writeJSON(w, http.StatusOK, info)
}
