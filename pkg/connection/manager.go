package connection

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Logger defines the logging operations the connection manager needs.
//
//go:generate mockgen -source=manager.go -destination=mock_logger.go -package=connection
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Dialer builds a backend for a resolved endpoint. It must not perform
// the liveness round-trip; the manager does that.
type Dialer func(ctx context.Context, ep Endpoint) (vectordb.Backend, error)

// Manager owns the single shared backend handle. All access-layer
// components obtain the backend through RequireConnection.
//
// Connect and Close are serialized by a mutex; RequireConnection only
// takes the read lock, so in-flight operations never block each other.
type Manager struct {
	cfg    Config
	dial   Dialer
	logger Logger
	inst   observability.Instrumentation

	mu      sync.RWMutex
	backend vectordb.Backend
	mode    Mode
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDialer replaces the default dialer.
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithObservability reports connect and close through the given tracer
// and observer. Either may be nil.
func WithObservability(t observability.Tracer, o observability.Observer) Option {
	return func(m *Manager) {
		m.inst.Tracer = t
		m.inst.Observer = o
	}
}

// NewManager returns an unconnected manager.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		dial:   DefaultDialer,
		logger: nopLogger{},
		inst:   observability.Instrumentation{Component: "connection"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect establishes the connection. It is a no-op when already
// connected. The backend is only published after a successful
// ListCollections round-trip; any failure leaves the manager
// uninitialized and is reported as a connection error carrying the mode.
func (m *Manager) Connect(ctx context.Context) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return nil
	}

	mode := m.cfg.ResolveMode()
	ctx, op := m.inst.Start(ctx, "connect", "")
	defer func() { op.Finish(err, 0, map[string]interface{}{"mode": string(mode)}) }()

	ep, err := m.cfg.Resolve()
	if err != nil {
		return vectordb.ConnectionFailed(string(mode), err)
	}

	m.logger.Info("connecting to vector database", nil, map[string]interface{}{
		"mode":     string(ep.Mode),
		"endpoint": ep.String(),
	})

	backend, err := m.dial(ctx, ep)
	if err != nil {
		m.logger.Error("failed to create vector database client", err, map[string]interface{}{"mode": string(ep.Mode)})
		return vectordb.ConnectionFailed(string(ep.Mode), err)
	}

	if _, err := backend.ListCollections(ctx); err != nil {
		_ = backend.Close()
		m.logger.Error("vector database liveness check failed", err, map[string]interface{}{"mode": string(ep.Mode)})
		return vectordb.ConnectionFailed(string(ep.Mode), err)
	}

	m.backend = backend
	m.mode = ep.Mode
	m.logger.Info("connected to vector database", nil, map[string]interface{}{"mode": string(ep.Mode)})
	return nil
}

// Close releases the backend and returns to the uninitialized state.
// Calling it again is a no-op.
func (m *Manager) Close(ctx context.Context) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend == nil {
		return nil
	}

	_, op := m.inst.Start(ctx, "close", "")
	defer func() { op.Finish(err, 0, map[string]interface{}{"mode": string(m.mode)}) }()

	backend := m.backend
	m.backend = nil
	if err := backend.Close(); err != nil {
		m.logger.Warn("error while closing vector database client", err, nil)
		return fmt.Errorf("close %s backend: %w", m.mode, err)
	}
	m.logger.Info("vector database connection closed", nil, map[string]interface{}{"mode": string(m.mode)})
	return nil
}

// RequireConnection returns the live backend or a not_initialized error.
func (m *Manager) RequireConnection() (vectordb.Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend == nil {
		return nil, vectordb.NotInitialized()
	}
	return m.backend, nil
}

// IsConnected reports whether Connect has succeeded and Close has not run.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend != nil
}

// Mode returns the configured mode, resolved from the config.
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend != nil {
		return m.mode
	}
	return m.cfg.ResolveMode()
}

// Scope returns the translation scope for an operation on collection.
func (m *Manager) Scope(collection string) vectordb.Scope {
	return vectordb.Scope{Collection: collection, Mode: string(m.Mode())}
}

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
func (nopLogger) Fatal(string, error, ...map[string]interface{}) {}
