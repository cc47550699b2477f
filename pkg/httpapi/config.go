package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultAddress         = ":8000"
	DefaultAPIPrefix       = "/api/v1"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config controls the REST server.
type Config struct {
	Address   string `yaml:"address"`
	APIPrefix string `yaml:"api_prefix" split_words:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`

	// DefaultSearchLimit applies when a search request omits limit.
	// It is taken from the collection defaults.
	DefaultSearchLimit int `yaml:"-" ignored:"true"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.APIPrefix == "" {
		c.APIPrefix = DefaultAPIPrefix
	}
	c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.DefaultSearchLimit == 0 {
		c.DefaultSearchLimit = vectordb.DefaultSearchLimit
	}
}

// Validate rejects negative timeouts and an out of range search limit.
func (c Config) Validate() error {
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return vectordb.ValidateSearchLimit(c.DefaultSearchLimit)
}
