package observability

import "go.uber.org/fx"

// FXModule collects every Observer contributed to the "observers" group and
// provides them as a single Observer.
var FXModule = fx.Module("observability",
	fx.Provide(NewGroupObserver),
)

// ObserverParams receives the contributed observers.
type ObserverParams struct {
	fx.In

	Observers []Observer `group:"observers"`
}

// NewGroupObserver fans out to every contributed observer.
func NewGroupObserver(p ObserverParams) Observer {
	return Multi(p.Observers...)
}
