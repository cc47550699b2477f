package metrics

// DefaultMetricsAddress is the listen address of a default service config.
const DefaultMetricsAddress = ":9090"

// Config controls the Prometheus exposition server.
type Config struct {
	// Address is the listen address of the /metrics server, e.g. ":9090".
	// Empty disables the server; collectors are still registered.
	Address string `yaml:"address"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" split_words:"true"`

	// Namespace prefixes every metric registered by this package,
	// e.g. "search" turns vectordb_operations_total into
	// search_vectordb_operations_total.
	Namespace string `yaml:"namespace"`

	// ServiceName is attached to every series as the "service" label.
	ServiceName string `yaml:"service_name" split_words:"true"`
}
