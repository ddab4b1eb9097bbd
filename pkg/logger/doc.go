// Package logger builds the storefront's structured logger on top of log/slog.
//
// The logger writes JSON (or text) to stdout and, when a Sentry DSN is
// configured, forwards warnings as Sentry logs and errors as Sentry issues.
// Request-scoped values such as the request id or the signed-in user are
// attached through extractors that run on every record:
//
//	log := logger.New(cfg.Log,
//	    logger.ContextValue(requestIDKey{}, "request_id"),
//	    middlewares.UserIDExtractor(),
//	)
//	defer logger.Flush(2 * time.Second)
//
// An empty DSN keeps logging local, so the same code path serves development
// and production.
package logger
