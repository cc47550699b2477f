package health

import (
	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides the *Monitor.
var FXModule = fx.Module("health",
	fx.Provide(NewMonitorFromParams),
)

type MonitorParams struct {
	fx.In

	Manager  *connection.Manager
	Tracer   observability.Tracer   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewMonitorFromParams(p MonitorParams) *Monitor {
	return NewMonitor(p.Manager, p.Tracer, p.Observer)
}
