package connection

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// stubBackend fails ListCollections with listErr and counts Close calls.
type stubBackend struct {
	vectordb.Backend
	listErr error
	closed  atomic.Int32
}

func (s *stubBackend) ListCollections(context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []string{}, nil
}

func (s *stubBackend) Close() error {
	s.closed.Add(1)
	return nil
}

func stubDialer(b *stubBackend, dials *atomic.Int32) Dialer {
	return func(context.Context, Endpoint) (vectordb.Backend, error) {
		if dials != nil {
			dials.Add(1)
		}
		return b, nil
	}
}

func TestRequireConnectionBeforeConnect(t *testing.T) {
	m := NewManager(Config{Host: "localhost"})

	_, err := m.RequireConnection()
	require.Error(t, err)
	assert.True(t, vectordb.IsNotInitialized(err))
	assert.Equal(t, 503, err.(*vectordb.Error).Status())
	assert.False(t, m.IsConnected())
}

func TestConnectLocalMode(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Config{Path: t.TempDir()})

	require.NoError(t, m.Connect(ctx))
	assert.True(t, m.IsConnected())
	assert.Equal(t, ModeLocal, m.Mode())

	b1, err := m.RequireConnection()
	require.NoError(t, err)

	// second connect keeps the same handle
	require.NoError(t, m.Connect(ctx))
	b2, err := m.RequireConnection()
	require.NoError(t, err)
	assert.Same(t, b1, b2)

	require.NoError(t, m.Close(ctx))
	require.NoError(t, m.Close(ctx))
	_, err = m.RequireConnection()
	assert.True(t, vectordb.IsNotInitialized(err))
}

func TestConnectIsSerialized(t *testing.T) {
	var dials atomic.Int32
	backend := &stubBackend{}
	m := NewManager(Config{Host: "h"}, WithDialer(stubDialer(backend, &dials)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.Connect(context.Background()))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, dials.Load())
}

func TestConnectLivenessFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := NewMockLogger(ctrl)
	log.EXPECT().Info("connecting to vector database", nil, gomock.Any()).Times(1)
	log.EXPECT().Error("vector database liveness check failed", gomock.Any(), gomock.Any()).Times(1)

	backend := &stubBackend{listErr: errors.New("connection refused")}
	obs := &observability.Recorder{}
	m := NewManager(Config{Host: "h"},
		WithDialer(stubDialer(backend, nil)),
		WithLogger(log),
		WithObservability(nil, obs),
	)

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, vectordb.IsConnectionError(err))
	assert.Equal(t, "server", err.(*vectordb.Error).Details["mode"])
	assert.EqualValues(t, 1, backend.closed.Load(), "half-open backend must be released")
	assert.False(t, m.IsConnected())

	ops := obs.GetOperations()
	require.Len(t, ops, 1)
	assert.Equal(t, "connect", ops[0].Operation)
	assert.Error(t, ops[0].Error)
}

func TestConnectDialFailure(t *testing.T) {
	m := NewManager(Config{Path: t.TempDir()}, WithDialer(func(context.Context, Endpoint) (vectordb.Backend, error) {
		return nil, errors.New("disk full")
	}))

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, vectordb.IsConnectionError(err))
	assert.Equal(t, "local", err.(*vectordb.Error).Details["mode"])
}

func TestConnectInvalidConfig(t *testing.T) {
	m := NewManager(Config{Mode: ModeCloud})

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, vectordb.IsConnectionError(err))
	assert.Equal(t, "cloud", err.(*vectordb.Error).Details["mode"])
}

func TestConnectUnreachableServer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	m := NewManager(Config{Host: "127.0.0.1", GRPCPort: port, Timeout: 2 * time.Second})
	err = m.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, vectordb.IsConnectionError(err))
	assert.Equal(t, "server", err.(*vectordb.Error).Details["mode"])
	assert.False(t, m.IsConnected())
}

func TestScope(t *testing.T) {
	m := NewManager(Config{Path: "/tmp/x"})
	assert.Equal(t, vectordb.Scope{Collection: "docs", Mode: "local"}, m.Scope("docs"))
}
