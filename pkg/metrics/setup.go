package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and the HTTP server exposing it.
type Metrics struct {
	Server     *http.Server
	Registry   *prometheus.Registry
	Registerer prometheus.Registerer

	namespace   string
	serviceName string
}

// NewMetrics builds a fresh registry. Every collector registered through
// Registerer carries the service label.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: wrappedRegistry}))

	var server *http.Server
	if cfg.Address != "" {
		server = &http.Server{
			Addr:              cfg.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return &Metrics{
		Server:      server,
		Registry:    registry,
		Registerer:  wrappedRegistry,
		namespace:   cfg.Namespace,
		serviceName: cfg.ServiceName,
	}
}

// Handler returns the exposition handler without the server, for mounting
// on an existing router.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
