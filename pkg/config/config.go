// Package config assembles the service configuration from an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/collections"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/connection"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/httpapi"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/logger"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/metrics"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/tracer"
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultCollectionName = "documents"
	DefaultVectorSize     = 1024
	DefaultDistance       = "Cosine"
)

// Environment variable prefixes, one per section.
const (
	EnvQdrant  = "QDRANT"
	EnvLogger  = "ZAP_LOGGER"
	EnvMetrics = "METRICS"
	EnvTracer  = "TRACER"
	EnvHTTP    = "HTTP"
)

// Config is the root configuration of the service.
type Config struct {
	Qdrant   connection.Config `yaml:"qdrant"`
	Defaults Defaults          `yaml:"defaults"`
	Logger   logger.Config     `yaml:"logger"`
	Metrics  metrics.Config    `yaml:"metrics"`
	Tracer   tracer.Config     `yaml:"tracer"`
	HTTP     httpapi.Config    `yaml:"http"`
}

// Defaults holds the collection and search defaults. They share the
// QDRANT_ prefix, e.g. QDRANT_DEFAULT_COLLECTION and
// QDRANT_ENSURE_DEFAULT_COLLECTION.
type Defaults struct {
	DefaultCollection string `yaml:"collection" split_words:"true"`
	DefaultVectorSize int    `yaml:"vector_size" split_words:"true"`
	DefaultDistance   string `yaml:"distance" split_words:"true"`

	// DefaultSearchLimit is used when a search request names no limit.
	DefaultSearchLimit int `yaml:"search_limit" split_words:"true"`

	// EnsureDefaultCollection creates DefaultCollection on start when it
	// is missing.
	EnsureDefaultCollection bool `yaml:"ensure_collection" split_words:"true"`
}

// Default returns the configuration used when neither file nor
// environment says otherwise.
func Default() *Config {
	cfg := &Config{}
	cfg.Qdrant.PreferGRPC = true
	cfg.Metrics.Address = metrics.DefaultMetricsAddress
	cfg.Metrics.EnableDefaultCollectors = true
	cfg.ApplyDefaults()
	return cfg
}

// Load builds the configuration. Priority: environment, then the YAML file
// at path, then defaults. An empty path skips the file; ${VAR} references
// in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.processEnv(); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) processEnv() error {
	sections := []struct {
		prefix string
		spec   interface{}
	}{
		{EnvQdrant, &c.Qdrant},
		{EnvQdrant, &c.Defaults},
		{EnvLogger, &c.Logger},
		{EnvMetrics, &c.Metrics},
		{EnvTracer, &c.Tracer},
		{EnvHTTP, &c.HTTP},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return fmt.Errorf("environment %s_*: %w", s.prefix, err)
		}
	}
	return nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Qdrant.ApplyDefaults()

	if c.Defaults.DefaultCollection == "" {
		c.Defaults.DefaultCollection = DefaultCollectionName
	}
	if c.Defaults.DefaultVectorSize == 0 {
		c.Defaults.DefaultVectorSize = DefaultVectorSize
	}
	if c.Defaults.DefaultDistance == "" {
		c.Defaults.DefaultDistance = DefaultDistance
	}
	if c.Defaults.DefaultSearchLimit == 0 {
		c.Defaults.DefaultSearchLimit = vectordb.DefaultSearchLimit
	}

	if c.Logger.Level == "" {
		c.Logger.Level = logger.Info
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = logger.DefaultServiceName
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Logger.ServiceName
	}
	if c.Tracer.ServiceName == "" {
		c.Tracer.ServiceName = c.Logger.ServiceName
	}

	c.HTTP.ApplyDefaults()
	if c.HTTP.DefaultSearchLimit == 0 {
		c.HTTP.DefaultSearchLimit = c.Defaults.DefaultSearchLimit
	}
}

// Validate checks every section and joins the failures.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Qdrant.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("qdrant: %w", err))
	}
	if err := vectordb.ValidateCollectionName(c.Defaults.DefaultCollection); err != nil {
		errs = append(errs, fmt.Errorf("defaults.collection: %w", err))
	}
	if err := vectordb.ValidateVectorSize(c.Defaults.DefaultVectorSize); err != nil {
		errs = append(errs, fmt.Errorf("defaults.vector_size: %w", err))
	}
	if _, err := vectordb.ParseDistance(c.Defaults.DefaultDistance); err != nil {
		errs = append(errs, fmt.Errorf("defaults.distance: %w", err))
	}
	if err := vectordb.ValidateSearchLimit(c.Defaults.DefaultSearchLimit); err != nil {
		errs = append(errs, fmt.Errorf("defaults.search_limit: %w", err))
	}
	if err := c.HTTP.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("http: %w", err))
	}
	return errors.Join(errs...)
}

// Bootstrap returns the default collection settings.
func (c *Config) Bootstrap() collections.BootstrapConfig {
	return collections.BootstrapConfig{
		Enabled:    c.Defaults.EnsureDefaultCollection,
		Name:       c.Defaults.DefaultCollection,
		VectorSize: c.Defaults.DefaultVectorSize,
		Distance:   c.Defaults.DefaultDistance,
	}
}
