package collections

import (
	"context"

	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides the *Registry and, when enabled, creates the default
// collection on start. It must come after connection.FXModule so the
// connection hook runs first.
var FXModule = fx.Module("collections",
	fx.Provide(NewRegistryFromParams),
	fx.Invoke(RegisterBootstrap),
)

// BootstrapConfig describes the collection created on start.
type BootstrapConfig struct {
	Enabled    bool
	Name       string
	VectorSize int
	Distance   string
}

// RegistryParams groups the dependencies of the registry.
type RegistryParams struct {
	fx.In

	Manager  *connection.Manager
	Tracer   observability.Tracer   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewRegistryFromParams builds a Registry from injected dependencies.
func NewRegistryFromParams(p RegistryParams) *Registry {
	return NewRegistry(p.Manager, p.Tracer, p.Observer)
}

// BootstrapParams groups the dependencies of RegisterBootstrap.
type BootstrapParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Registry  *Registry
	Config    BootstrapConfig   `optional:"true"`
	Logger    connection.Logger `optional:"true"`
}

// RegisterBootstrap ensures the default collection exists on start.
func RegisterBootstrap(p BootstrapParams) {
	if !p.Config.Enabled {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c, created, err := p.Registry.Ensure(ctx, CreateRequest{
				Name:       p.Config.Name,
				VectorSize: p.Config.VectorSize,
				Distance:   p.Config.Distance,
			})
			if err != nil {
				return err
			}
			if p.Logger != nil {
				p.Logger.Info("default collection ready", nil, map[string]interface{}{
					"collection":  c.Name,
					"created":     created,
					"vector_size": c.VectorSize,
				})
			}
			return nil
		},
	})
}
