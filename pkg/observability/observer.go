// Package observability defines the hook access-layer components use to
// report the operations they perform. Metrics, tracing and log sinks
// implement Observer; components never import them directly.
package observability

import (
	"time"
)

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the reporting component, e.g. "collections" or "points".
	Component string

	// Operation is the verb, e.g. "create", "upsert", "search".
	Operation string

	// Resource is the primary target, usually a collection name.
	Resource string

	// SubResource narrows the target, e.g. a point id.
	SubResource string

	// Duration is the wall-clock time of the operation.
	Duration time.Duration

	// Error is the failure returned to the caller, or nil.
	Error error

	// Size is an operation-specific count (points written, hits returned).
	Size int64

	// Metadata carries extra structured fields.
	Metadata map[string]interface{}
}

// Observer receives operation notifications. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }

// Multi fans a notification out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	filtered := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return multiObserver(filtered)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
