package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/config"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/health"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/httpapi"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/logger"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/metrics"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/points"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/search"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/tracer"
)

// appOptions wires the service. Module order matters for lifecycle hooks:
// the connection must be up before the default collection is ensured and
// before the HTTP server accepts requests.
func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		config.FXModule(cfg),
		fx.Supply(httpapi.Version(version)),

		logger.FXModule,
		fx.Provide(
			func(l *logger.Logger) connection.Logger { return l },
			func(l *logger.Logger) tracer.Logger { return l },
		),
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),

		tracer.FXModule,
		metrics.FXModule,
		observability.FXModule,

		connection.FXModule,
		collections.FXModule,
		points.FXModule,
		search.FXModule,
		health.FXModule,

		httpapi.FXModule,
	)
}
