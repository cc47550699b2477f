// Package tracer provides distributed tracing on top of OpenTelemetry.
//
// Every access-layer operation runs inside a span named
// "<component>.<operation>", e.g. "points.upsert" or "search.query".
// The HTTP boundary extracts incoming W3C trace context with
// SetCarrierOnContext so those spans join the caller's trace.
//
//	t := tracer.NewClient(tracer.Config{
//		ServiceName:  "qdrant-access",
//		AppEnv:       "development",
//		EnableExport: true,
//	}, log)
//
//	ctx, span := t.StartSpan(ctx, "collections.get")
//	defer span.End()
//	if err != nil {
//		t.RecordErrorOnSpan(span, err)
//	}
//
// Configuration:
//
//	TRACER_SERVICE_NAME=qdrant-access
//	TRACER_APP_ENV=production
//	TRACER_ENABLE_EXPORT=true
//	TRACER_ENDPOINT=http://otel-collector:4318
//
// All methods are safe for concurrent use.
package tracer
