package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/logger"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/points"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/search"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/tracer"
)

// FXModule provides the *Server and runs it for the lifetime of the app.
var FXModule = fx.Module("httpapi",
	fx.Provide(NewServerFromParams),
	fx.Invoke(RegisterServerLifecycle),
)

// Version is reported by the root and health endpoints. Supply it with
// fx.Supply to override the default.
type Version string

// ServerParams groups the dependencies of the server.
type ServerParams struct {
	fx.In

	Config      Config
	Collections *collections.Registry
	Points      *points.Store
	Search      *search.Engine
	Health      *health.Monitor
	Manager     *connection.Manager
	Logger      *logger.Logger `optional:"true"`
	Tracer      *tracer.Tracer `optional:"true"`
	Version     Version        `optional:"true"`
}

// NewServerFromParams builds a Server from injected dependencies.
func NewServerFromParams(p ServerParams) *Server {
	d := Deps{
		Collections: p.Collections,
		Points:      p.Points,
		Search:      p.Search,
		Health:      p.Health,
		Config:      p.Config,
		Version:     string(p.Version),
		Mode:        func() string { return string(p.Manager.Mode()) },
	}
	if p.Logger != nil {
		d.Logger = p.Logger.Zap
	}
	if p.Tracer != nil {
		d.Tracer = p.Tracer
	}
	return NewServer(d)
}

// LifecycleParams groups the dependencies of RegisterServerLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Server    *Server
	Logger    *logger.Logger `optional:"true"`
}

// RegisterServerLifecycle listens on start and drains connections on stop.
func RegisterServerLifecycle(p LifecycleParams) {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	cfg := p.Server.cfg
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      p.Server.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", nil, map[string]interface{}{
				"address":    ln.Addr().String(),
				"api_prefix": cfg.APIPrefix,
			})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
