// Package internal provides the HTTP layer the storefront is built on.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/storefront" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: routing, middleware, health probes and graceful shutdown
//   - Context: request/response access plus rendering and cookie helpers
//   - Router: interface handlers use to declare routes and groups
//   - Handler: implemented by types that declare routes on a Router
//   - HandlerFunc: a route handler that returns an error
//   - Middleware: wraps a HandlerFunc
//   - ErrorHandler: renders errors returned from handlers
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be handed straight to the API
// client and the stores:
//
//	func (h *Cart) add(c storefront.Context) error {
//	    v := visitor.FromContext(c)
//	    if err := v.Cart.AddToCart(c, apiclient.ID(c.Param("id")), 1); err != nil {
//	        return err
//	    }
//	    return c.Redirect(http.StatusSeeOther, "/cart")
//	}
//
// SetContext swaps the request context for the rest of the chain, which is
// how the timeout middleware attaches its deadline.
//
// # Rendering
//
// Render writes any templ-compatible component. For htmx requests the
// ResponseWriter sends error statuses as 200 so that the error fragment is
// swapped in, and htmx options add headers and out-of-band fragments:
//
//	return c.Render(http.StatusOK, views.CartLines(cart),
//	    htmx.WithOOB(views.CartBadge(cart.Count(), true)),
//	)
//
// RenderPartial picks between a full page and a fragment based on the
// request.
//
// # Errors
//
// A handler error goes to the ErrorHandler unless the response was already
// written. Without one, the status of an *HTTPError in the chain is used,
// or 500.
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    storefront.Logger(log),
//	    storefront.StartupHook(warmer.Start),
//	    storefront.ShutdownHook(warmer.Stop),
//	)
//
// Startup hooks run once the listener is bound. Shutdown hooks run after the
// server has drained, in registration order, and their errors are joined.
package internal
