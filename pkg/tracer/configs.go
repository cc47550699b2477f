package tracer

// Config controls span export and the resource attached to every span.
type Config struct {
	// ServiceName is reported as service.name.
	ServiceName string `yaml:"service_name" split_words:"true"`

	// AppEnv is reported as deployment.environment (development, staging, production).
	AppEnv string `yaml:"app_env" split_words:"true"`

	// EnableExport turns on the OTLP HTTP exporter. When false spans are
	// created and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" split_words:"true"`

	// Endpoint overrides the OTLP collector URL, e.g. "http://otel:4318".
	// Empty means the OTEL_EXPORTER_OTLP_* environment defaults apply.
	Endpoint string `yaml:"endpoint"`
}
