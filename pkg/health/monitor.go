// Package health probes the vector database backend.
package health

import (
	"context"
	"errors"
	"time"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Status is the outcome of a probe.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Report is the result of one Check. Error is set only when unhealthy;
// CollectionsCount only when healthy.
type Report struct {
	Status           Status        `json:"status"`
	Latency          time.Duration `json:"-"`
	LatencyMS        float64       `json:"latency_ms"`
	CollectionsCount int           `json:"collections_count,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// Healthy reports whether the probe succeeded.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Monitor times a ListCollections round-trip.
type Monitor struct {
	conn vectordb.Connector
	inst observability.Instrumentation
}

// NewMonitor returns a Monitor over conn. tracer and observer may be nil.
func NewMonitor(conn vectordb.Connector, tracer observability.Tracer, observer observability.Observer) *Monitor {
	return &Monitor{
		conn: conn,
		inst: observability.Instrumentation{Component: "health", Tracer: tracer, Observer: observer},
	}
}

// Check never fails; problems, including an uninitialized connection, are
// reported as an unhealthy Report.
func (m *Monitor) Check(ctx context.Context) Report {
	ctx, op := m.inst.Start(ctx, "check", "")
	start := time.Now()

	var (
		names []string
		err   error
	)
	backend, err := m.conn.RequireConnection()
	if err == nil {
		names, err = backend.ListCollections(ctx)
		err = vectordb.Translate(err, m.conn.Scope(""))
	}
	latency := time.Since(start)

	r := Report{Latency: latency, LatencyMS: float64(latency.Microseconds()) / 1000}
	if err != nil {
		r.Status = StatusUnhealthy
		r.Error = message(err)
	} else {
		r.Status = StatusHealthy
		r.CollectionsCount = len(names)
	}

	op.Finish(err, int64(r.CollectionsCount), map[string]interface{}{"status": string(r.Status)})
	return r
}

func message(err error) string {
	var e *vectordb.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
