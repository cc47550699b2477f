package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Mode
	}{
		{"path selects local", Config{Path: "./data", Host: "localhost"}, ModeLocal},
		{"url and key select cloud", Config{URL: "https://x.cloud.qdrant.io", APIKey: "k"}, ModeCloud},
		{"url without key is server", Config{URL: "http://qdrant:6333"}, ModeServer},
		{"host only is server", Config{Host: "qdrant"}, ModeServer},
		{"explicit mode wins", Config{Mode: ModeCloud, Host: "qdrant"}, ModeCloud},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ResolveMode())
		})
	}
}

func TestResolveEndpoint(t *testing.T) {
	cfg := Config{Host: "qdrant", Timeout: time.Second}
	cfg.ApplyDefaults()
	ep, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Mode: ModeServer, Host: "qdrant", Port: DefaultGRPCPort, Timeout: time.Second}, ep)
	assert.Equal(t, "grpc://qdrant:6334", ep.String())

	ep, err = Config{URL: "https://abc.eu.cloud.qdrant.io:6333", APIKey: "secret"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ModeCloud, ep.Mode)
	assert.Equal(t, "abc.eu.cloud.qdrant.io", ep.Host)
	assert.Equal(t, DefaultGRPCPort, ep.Port, "REST port maps to gRPC port")
	assert.True(t, ep.UseTLS)
	assert.Equal(t, "secret", ep.APIKey)
	assert.NotContains(t, ep.String(), "secret")

	ep, err = Config{URL: "qdrant.internal:7000"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ModeServer, ep.Mode)
	assert.Equal(t, "qdrant.internal", ep.Host)
	assert.Equal(t, 7000, ep.Port)
	assert.False(t, ep.UseTLS)

	ep, err = Config{Path: "/var/lib/vectors", Timeout: 5 * time.Second}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Endpoint{Mode: ModeLocal, Path: "/var/lib/vectors", Timeout: 5 * time.Second}, ep)
	assert.Equal(t, "local:/var/lib/vectors", ep.String())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"path and url", Config{Path: "./data", URL: "http://qdrant"}},
		{"local without path", Config{Mode: ModeLocal}},
		{"cloud without key", Config{Mode: ModeCloud, URL: "https://x"}},
		{"server with path", Config{Mode: ModeServer, Path: "./data", Host: "h"}},
		{"server without host", Config{}},
		{"bad port", Config{Host: "h", GRPCPort: 70000}},
		{"bad url port", Config{URL: "http://h:0"}},
		{"negative timeout", Config{Host: "h", Timeout: -time.Second}},
		{"unknown mode", Config{Mode: "embedded", Host: "h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.True(t, vectordb.IsValidation(err))
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultGRPCPort, cfg.GRPCPort)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{Host: "qdrant", Timeout: time.Second}
	cfg.ApplyDefaults()
	assert.Equal(t, "qdrant", cfg.Host)
	assert.Equal(t, time.Second, cfg.Timeout)
}
