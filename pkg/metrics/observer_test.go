package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

func newObserver(t *testing.T) *OperationObserver {
	t.Helper()
	o, err := NewOperationObserver(NewMetrics(Config{ServiceName: "test"}))
	require.NoError(t, err)
	return o
}

func TestOperationObserverCountsByStatus(t *testing.T) {
	o := newObserver(t)

	o.ObserveOperation(observability.OperationContext{Component: "collections", Operation: "get", Duration: time.Millisecond})
	o.ObserveOperation(observability.OperationContext{
		Component: "collections", Operation: "get",
		Error: vectordb.CollectionNotFound("docs"),
	})
	o.ObserveOperation(observability.OperationContext{
		Component: "collections", Operation: "get",
		Error: errors.New("unclassified"),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("collections", "get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("collections", "get", "collection_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.operations.WithLabelValues("collections", "get", "internal_error")))
	assert.Equal(t, 1, testutil.CollectAndCount(o.durations))
}

func TestOperationObserverPointsWritten(t *testing.T) {
	o := newObserver(t)

	o.ObserveOperation(observability.OperationContext{Component: "points", Operation: "upsert_batch", Resource: "docs", Size: 25})
	o.ObserveOperation(observability.OperationContext{Component: "points", Operation: "upsert", Resource: "docs", Size: 1})
	o.ObserveOperation(observability.OperationContext{
		Component: "points", Operation: "upsert_batch", Resource: "docs", Size: 10,
		Error: vectordb.VectorSizeMismatch("docs", 4, 3),
	})

	assert.Equal(t, 26.0, testutil.ToFloat64(o.pointsWritten.WithLabelValues("docs")))
}

func TestOperationObserverBackendUp(t *testing.T) {
	o := newObserver(t)

	o.ObserveOperation(observability.OperationContext{Component: "connection", Operation: "connect"})
	assert.Equal(t, 1.0, testutil.ToFloat64(o.backendUp))

	o.ObserveOperation(observability.OperationContext{
		Component: "health", Operation: "check",
		Error: vectordb.ConnectionFailed("server", errors.New("refused")),
	})
	assert.Equal(t, 0.0, testutil.ToFloat64(o.backendUp))

	o.ObserveOperation(observability.OperationContext{Component: "health", Operation: "check"})
	assert.Equal(t, 1.0, testutil.ToFloat64(o.backendUp))

	o.ObserveOperation(observability.OperationContext{Component: "connection", Operation: "close"})
	assert.Equal(t, 0.0, testutil.ToFloat64(o.backendUp))
}

func TestNamespacePrefixesMetricNames(t *testing.T) {
	m := NewMetrics(Config{Namespace: "search", ServiceName: "svc"})
	o, err := NewOperationObserver(m)
	require.NoError(t, err)

	o.ObserveOperation(observability.OperationContext{Component: "search", Operation: "query"})

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "search_vectordb_operations_total")
}

func TestDoubleRegistrationFails(t *testing.T) {
	m := NewMetrics(Config{})
	_, err := NewOperationObserver(m)
	require.NoError(t, err)
	_, err = NewOperationObserver(m)
	assert.Error(t, err)
}
