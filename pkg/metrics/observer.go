package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

const (
	statusOK       = "ok"
	statusInternal = "internal_error"
)

// Latency buckets in seconds, from a local sqlite lookup up to the default
// 30s backend timeout.
var durationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// OperationObserver turns operation notifications into Prometheus series.
type OperationObserver struct {
	operations    *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	pointsWritten *prometheus.CounterVec
	backendUp     prometheus.Gauge
}

var _ observability.Observer = (*OperationObserver)(nil)

// NewOperationObserver registers the access-layer collectors on m.
func NewOperationObserver(m *Metrics) (*OperationObserver, error) {
	o := &OperationObserver{
		operations: createCounterVec(m.namespace, "vectordb_operations_total",
			"Vector database operations by outcome. status is ok or the error code.",
			[]string{"component", "operation", "status"}),
		durations: createHistogramVec(m.namespace, "vectordb_operation_duration_seconds",
			"Vector database operation latency.",
			[]string{"component", "operation"}, durationBuckets),
		pointsWritten: createCounterVec(m.namespace, "vectordb_points_written_total",
			"Points successfully upserted, per collection.",
			[]string{"collection"}),
		backendUp: createGauge(m.namespace, "vectordb_backend_up",
			"1 when the last connection or health check succeeded."),
	}

	for _, c := range []prometheus.Collector{o.operations, o.durations, o.pointsWritten, o.backendUp} {
		if err := m.Registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// ObserveOperation implements observability.Observer.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	status := statusOK
	if ctx.Error != nil {
		status = statusInternal
		if kind, ok := vectordb.KindOf(ctx.Error); ok {
			status = string(kind)
		}
	}

	o.operations.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	o.durations.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	switch {
	case ctx.Component == "points" && (ctx.Operation == "upsert" || ctx.Operation == "upsert_batch"):
		if ctx.Error == nil && ctx.Size > 0 {
			o.pointsWritten.WithLabelValues(ctx.Resource).Add(float64(ctx.Size))
		}
	case ctx.Component == "connection" && ctx.Operation == "connect",
		ctx.Component == "health" && ctx.Operation == "check":
		if ctx.Error == nil {
			o.backendUp.Set(1)
		} else {
			o.backendUp.Set(0)
		}
	case ctx.Component == "connection" && ctx.Operation == "close":
		o.backendUp.Set(0)
	}
}
