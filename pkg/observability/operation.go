package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer starts spans. *tracer.Tracer satisfies it.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
}

// Instrumentation bundles the optional tracer and observer of a component.
// The zero value is usable and records nothing.
type Instrumentation struct {
	Component string
	Tracer    Tracer
	Observer  Observer
}

// Operation is an in-flight instrumented call. Finish it exactly once.
type Operation struct {
	inst        Instrumentation
	name        string
	resource    string
	subResource string
	start       time.Time
	span        trace.Span
}

// Start opens a span named "<component>.<operation>" and starts the clock.
func (i Instrumentation) Start(ctx context.Context, operation, resource string) (context.Context, *Operation) {
	var span trace.Span
	if i.Tracer != nil {
		ctx, span = i.Tracer.StartSpan(ctx, i.Component+"."+operation)
	} else {
		_, span = noop.NewTracerProvider().Tracer("").Start(ctx, operation)
	}
	if resource != "" {
		span.SetAttributes(attribute.String("vectordb.collection", resource))
	}
	return ctx, &Operation{
		inst:     i,
		name:     operation,
		resource: resource,
		start:    time.Now(),
		span:     span,
	}
}

// WithSubResource records a narrower target, e.g. a point id.
func (o *Operation) WithSubResource(sub string) *Operation {
	o.subResource = sub
	if sub != "" {
		o.span.SetAttributes(attribute.String("vectordb.sub_resource", sub))
	}
	return o
}

// Finish ends the span and notifies the observer. err is the error returned
// to the caller; size is an operation-specific count.
func (o *Operation) Finish(err error, size int64, metadata map[string]interface{}) {
	duration := time.Since(o.start)

	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.SetAttributes(attribute.Int64("vectordb.size", size))
	o.span.End()

	if o.inst.Observer == nil {
		return
	}
	o.inst.Observer.ObserveOperation(OperationContext{
		Component:   o.inst.Component,
		Operation:   o.name,
		Resource:    o.resource,
		SubResource: o.subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
