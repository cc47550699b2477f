package points

import (
	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides the *Store.
var FXModule = fx.Module("points",
	fx.Provide(NewStoreFromParams),
)

// StoreParams groups the dependencies of the point store.
type StoreParams struct {
	fx.In

	Manager  *connection.Manager
	Tracer   observability.Tracer   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewStoreFromParams builds a Store from injected dependencies.
func NewStoreFromParams(p StoreParams) *Store {
	return NewStore(p.Manager, p.Tracer, p.Observer)
}
