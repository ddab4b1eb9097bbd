// Package middlewares provides the HTTP middleware the storefront runs on.
//
// # Request ID
//
// RequestID assigns an ID to each request, reusing X-Request-ID or
// X-Correlation-ID when the caller sent one. Pair it with
// RequestIDExtractor so every log line carries request_id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := storefront.New(
//	    storefront.WithLogger(log),
//	    storefront.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into *PanicError so the error handler can render a
// normal error page.
//
// # Timeout
//
// Timeout attaches a deadline to the request context. The API client and
// the stores honour it; a handler that overran without writing anything
// returns *TimeoutError.
//
// # Request logging
//
// RequestLogger writes one line per request with status, size and duration.
//
// # Visitor
//
// Visitor restores the visitor's session from a sealed token cookie and
// loads their cart before the handler runs:
//
//	storefront.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Recover(),
//	    middlewares.RequestLogger(),
//	    middlewares.Timeout(cfg.RequestTimeout),
//	    middlewares.Visitor(api, middlewares.WithVisitorOptions(
//	        visitor.WithSessionCache(users, time.Minute),
//	    )),
//	)
//
// Handlers read it back with visitor.FromContext(c).
//
// # Route guard
//
// RequireSession renders a loading view while the session resolves and
// sends signed-out visitors to /login?next=... Use SafeNext when reading
// next back from the login form.
package middlewares
