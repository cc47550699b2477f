// Package logger provides the structured zap logger shared by every component.
//
// Components do not depend on *Logger directly. Each declares a narrow
// Logger interface with the Info/Debug/Warn/Error/Fatal method set and
// receives *Logger through fx:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "qdrant-access",
//		EnableTracing: true,
//	})
//
//	log.Info("collection created", nil, map[string]interface{}{
//		"collection": "docs",
//	})
//
//	// With an active span in ctx, trace_id and span_id are attached.
//	log.ErrorWithContext(ctx, "search failed", err, nil)
//
// Configuration:
//
//	ZAP_LOGGER_LEVEL=debug            # debug, info, warning, error
//	ZAP_LOGGER_SERVICE_NAME=my-svc    # "service" field on every entry
//	ZAP_LOGGER_ENABLE_TRACING=true    # trace correlation in *WithContext
//
// All methods are safe for concurrent use.
package logger
