// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/reactive/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("moviesinfo"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("moviesinfo"))
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// # Context-Aware Logging
//
// Request-scoped values are attached automatically to records logged with
// a context:
//
//	log := logger.New(
//		logger.WithProduction("moviesinfo"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return logger.RequestID(id), ok
//		}),
//	)
//	log.InfoContext(ctx, "movie created")
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// used without checks:
//
//	log.Error("publish failed",
//		logger.Error(err),
//		logger.Component("movieinfo"),
//		logger.ID("movie_id", m.ID),
//	)
//
//	log.Info("request",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(status),
//		logger.Latency(time.Since(start)),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
