package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/logger"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides *Metrics, the operation observer (also as an
// observability.Observer) and runs the exposition server.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		NewOperationObserver,
		fx.Annotate(
			func(o *OperationObserver) observability.Observer { return o },
			fx.ResultTags(`group:"observers"`),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsParams groups the lifecycle dependencies.
type MetricsParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the /metrics server on start and shuts it
// down gracefully on stop. Nothing is started when no address is configured.
func RegisterMetricsLifecycle(p MetricsParams) {
	srv := p.Metrics.Server
	if srv == nil {
		return
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("metrics server listening", nil, map[string]interface{}{"address": ln.Addr().String()})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
