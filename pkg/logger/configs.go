package logger

// Supported log levels.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// DefaultServiceName is attached to every entry when Config.ServiceName is empty.
const DefaultServiceName = "qdrant-access"

// Config controls the zap logger.
type Config struct {
	// Level is one of debug, info, warning, error. Anything else means info.
	Level string `yaml:"level"`

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string `yaml:"service_name" split_words:"true"`

	// EnableTracing adds trace_id and span_id to entries written through
	// the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" split_words:"true"`
}
