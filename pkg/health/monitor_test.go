package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

func TestCheckHealthy(t *testing.T) {
	ctx := context.Background()
	m := connection.NewManager(connection.Config{Path: t.TempDir()})
	require.NoError(t, m.Connect(ctx))
	t.Cleanup(func() { _ = m.Close(ctx) })

	backend, err := m.RequireConnection()
	require.NoError(t, err)
	for _, name := range []string{"a", "b"} {
		require.NoError(t, backend.CreateCollection(ctx, vectordb.CollectionSpec{Name: name, VectorSize: 2, Distance: vectordb.DistanceDot}))
	}

	rec := &observability.Recorder{}
	r := NewMonitor(m, nil, rec).Check(ctx)

	assert.True(t, r.Healthy())
	assert.Equal(t, 2, r.CollectionsCount)
	assert.Empty(t, r.Error)
	assert.Positive(t, r.Latency)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "health", last.Component)
	assert.Equal(t, "check", last.Operation)
	assert.NoError(t, last.Error)
}

func TestCheckNotInitialized(t *testing.T) {
	r := NewMonitor(connection.NewManager(connection.Config{Path: t.TempDir()}), nil, nil).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Contains(t, r.Error, "not initialized")
	assert.Zero(t, r.CollectionsCount)
}

type downBackend struct{ vectordb.Backend }

func (downBackend) ListCollections(context.Context) ([]string, error) {
	return nil, errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
}

type fixedConnector struct{ b vectordb.Backend }

func (f fixedConnector) RequireConnection() (vectordb.Backend, error) { return f.b, nil }
func (f fixedConnector) Scope(c string) vectordb.Scope              { return vectordb.Scope{Collection: c, Mode: "server"} }

func TestCheckUnreachable(t *testing.T) {
	rec := &observability.Recorder{}
	r := NewMonitor(fixedConnector{downBackend{}}, nil, rec).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.NotEmpty(t, r.Error)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.True(t, vectordb.IsConnectionError(last.Error))
}
