package search

import (
	"go.uber.org/fx"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// FXModule provides the *Engine.
var FXModule = fx.Module("search",
	fx.Provide(NewEngineFromParams),
)

// EngineParams groups the dependencies of the engine.
type EngineParams struct {
	fx.In

	Manager  *connection.Manager
	Logger   connection.Logger      `optional:"true"`
	Tracer   observability.Tracer   `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewEngineFromParams builds an Engine from injected dependencies.
func NewEngineFromParams(p EngineParams) *Engine {
	var l Logger
	if p.Logger != nil {
		l = p.Logger
	}
	return NewEngine(p.Manager, l, p.Tracer, p.Observer)
}
