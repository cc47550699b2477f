package logger

import (
	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/observability"
)

// NewOperationLogger returns an observer that writes one line per operation:
// debug on success, warn on failure.
func NewOperationLogger(l *Logger) observability.Observer {
	return observability.ObserverFunc(func(op observability.OperationContext) {
		fields := map[string]interface{}{
			"component":   op.Component,
			"operation":   op.Operation,
			"duration_ms": op.Duration.Milliseconds(),
		}
		if op.Resource != "" {
			fields["collection"] = op.Resource
		}
		if op.SubResource != "" {
			fields["id"] = op.SubResource
		}
		if op.Size != 0 {
			fields["size"] = op.Size
		}
		for k, v := range op.Metadata {
			fields[k] = v
		}

		if op.Error != nil {
			l.Warn("vectordb operation failed", op.Error, fields)
			return
		}
		l.Debug("vectordb operation", nil, fields)
	})
}
