package config

import (
	"go.uber.org/fx"
)

// FXModule supplies cfg and each of its sections to the graph.
func FXModule(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(
			cfg,
			cfg.Qdrant,
			cfg.Logger,
			cfg.Metrics,
			cfg.Tracer,
			cfg.HTTP,
			cfg.Bootstrap(),
		),
	)
}
