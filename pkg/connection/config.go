package connection

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Mode is the way the access layer reaches the vector database.
type Mode string

const (
	// ModeServer talks gRPC to a self-hosted server.
	ModeServer Mode = "server"
	// ModeCloud talks gRPC over TLS to a managed cluster with an API key.
	ModeCloud Mode = "cloud"
	// ModeLocal uses the embedded SQLite store at a filesystem path.
	ModeLocal Mode = "local"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 6333
	DefaultGRPCPort = 6334
	DefaultTimeout  = 30 * time.Second
)

// Config is the connection configuration. Exactly one mode must be
// resolvable from it:
//
//	Path set                 local
//	URL and APIKey set       cloud
//	URL set                  server at URL
//	otherwise                server at Host:GRPCPort
//
// Mode may name the intended mode explicitly; Validate then checks that
// the mode's required fields are present.
type Config struct {
	Mode Mode `yaml:"mode"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port" split_words:"true"`

	// URL is a full endpoint such as https://xyz.cloud.qdrant.io:6333.
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key" split_words:"true"`
	UseTLS bool   `yaml:"https" envconfig:"HTTPS"`

	// Path selects the embedded local store.
	Path string `yaml:"path"`

	Timeout time.Duration `yaml:"timeout"`

	// PreferGRPC is accepted for configuration compatibility. The server
	// client always speaks gRPC.
	PreferGRPC bool `yaml:"prefer_grpc" split_words:"true"`

	CheckCompatibility bool `yaml:"check_compatibility" split_words:"true"`
}

// Endpoint is a resolved, validated connection target.
type Endpoint struct {
	Mode    Mode
	Host    string
	Port    int
	APIKey  string
	UseTLS  bool
	Path    string
	Timeout time.Duration

	CheckCompatibility bool
}

// String renders the endpoint without secrets.
func (e Endpoint) String() string {
	if e.Mode == ModeLocal {
		return "local:" + e.Path
	}
	scheme := "grpc"
	if e.UseTLS {
		scheme = "grpcs"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(e.Host, strconv.Itoa(e.Port)))
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = DefaultGRPCPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// ResolveMode picks the mode from the populated fields.
func (c Config) ResolveMode() Mode {
	if c.Mode != "" {
		return c.Mode
	}
	switch {
	case c.Path != "":
		return ModeLocal
	case c.URL != "" && c.APIKey != "":
		return ModeCloud
	default:
		return ModeServer
	}
}

// Validate checks that exactly one mode is fully specified.
func (c Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// Resolve validates the configuration and returns the endpoint to dial.
func (c Config) Resolve() (Endpoint, error) {
	mode := c.ResolveMode()
	invalid := func(msg string) (Endpoint, error) {
		return Endpoint{}, vectordb.Validation("invalid connection config: "+msg, map[string]any{"mode": string(mode)})
	}

	if c.Timeout < 0 {
		return invalid("timeout must not be negative")
	}
	if c.Path != "" && c.URL != "" {
		return invalid("path and url are mutually exclusive")
	}

	ep := Endpoint{Mode: mode, Timeout: c.Timeout, CheckCompatibility: c.CheckCompatibility}
	switch mode {
	case ModeLocal:
		if c.Path == "" {
			return invalid("local mode requires a path")
		}
		ep.Path = c.Path
		return ep, nil

	case ModeCloud:
		if c.URL == "" || c.APIKey == "" {
			return invalid("cloud mode requires url and api_key")
		}
		host, port, _, err := c.parseURL()
		if err != nil {
			return invalid(err.Error())
		}
		// managed clusters only accept TLS
		ep.Host, ep.Port, ep.APIKey, ep.UseTLS = host, port, c.APIKey, true
		return ep, nil

	case ModeServer:
		if c.Path != "" {
			return invalid("server mode does not take a path")
		}
		ep.APIKey, ep.UseTLS = c.APIKey, c.UseTLS
		if c.URL != "" {
			host, port, tls, err := c.parseURL()
			if err != nil {
				return invalid(err.Error())
			}
			ep.Host, ep.Port, ep.UseTLS = host, port, tls || c.UseTLS
			return ep, nil
		}
		if c.Host == "" {
			return invalid("server mode requires a host")
		}
		port := c.GRPCPort
		if port == 0 {
			port = DefaultGRPCPort
		}
		if port < 1 || port > 65535 {
			return invalid("grpc_port out of range")
		}
		ep.Host, ep.Port = c.Host, port
		return ep, nil
	}
	return invalid(fmt.Sprintf("unknown mode %q", mode))
}

// parseURL extracts host and gRPC port from URL. A missing port, or the
// REST port, maps to the gRPC port.
func (c Config) parseURL() (host string, port int, tls bool, err error) {
	raw := c.URL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, false, fmt.Errorf("url: %v", err)
	}
	host = u.Hostname()
	if host == "" {
		return "", 0, false, fmt.Errorf("url %q has no host", c.URL)
	}

	grpcPort := c.GRPCPort
	if grpcPort == 0 {
		grpcPort = DefaultGRPCPort
	}
	restPort := c.Port
	if restPort == 0 {
		restPort = DefaultPort
	}

	port = grpcPort
	if p := u.Port(); p != "" {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n < 1 || n > 65535 {
			return "", 0, false, fmt.Errorf("url %q has an invalid port", c.URL)
		}
		if n != restPort {
			port = n
		}
	}
	return host, port, u.Scheme == "https" || u.Scheme == "grpcs", nil
}
