package connection

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides the *Manager and ties the connection to the
// application lifecycle: Connect on start, Close on stop.
//
// Dependencies: a connection.Config. A connection.Logger, an
// observability.Tracer and an observability.Observer are optional.
var FXModule = fx.Module("connection",
	fx.Provide(
		NewManagerFromParams,
	),
	fx.Invoke(RegisterConnectionLifecycle),
)

// ManagerParams groups the dependencies of the manager.
type ManagerParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Tracer   observability.Tracer   `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Dialer   Dialer                 `optional:"true"`
}

// NewManagerFromParams builds a Manager from injected dependencies.
func NewManagerFromParams(p ManagerParams) *Manager {
	opts := []Option{WithObservability(p.Tracer, p.Observer)}
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	if p.Dialer != nil {
		opts = append(opts, WithDialer(p.Dialer))
	}
	return NewManager(p.Config, opts...)
}

// RegisterConnectionLifecycle connects on start and closes once on stop.
// A failed connect aborts application start.
func RegisterConnectionLifecycle(lc fx.Lifecycle, m *Manager) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = m.Close(ctx)
			})
			return err
		},
	})
}
