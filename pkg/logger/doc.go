// Package logger builds configured slog loggers with automatic injection
// of request-scoped attributes from context.
//
// The factory wires format, level, static attributes, and a set of
// ContextExtractor functions into a single slog.Logger. Extractors run on
// every log call, which is how the active tenant ID ends up on every
// record logged inside a tenant-bearing request:
//
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithContextExtractors(tenancy.LogExtractor()),
//	)
//
//	log.InfoContext(ctx, "invoice created") // carries tenant_id=...
//
// Use WithDevelopment for text output at debug level during local work.
package logger
