// Package storefront is a server-rendered web storefront that sits in front
// of a REST shop API.
//
// The browser talks only to this server. Each request gets a visitor: a
// session store that holds the identity behind the bearer token kept in a
// sealed cookie, and a cart store that mirrors the API's cart for that
// identity. Pages are rendered on the server and progressively enhanced with
// htmx; cart changes swap fragments and update the cart badge out-of-band.
//
// # Quick Start
//
//	api, err := apiclient.New(cfg.APIURL)
//	if err != nil {
//	    return err
//	}
//
//	app := storefront.New(
//	    storefront.WithLogger(log),
//	    storefront.WithCookieManager(jar),
//	    storefront.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Visitor(api, middlewares.WithTokenCookie("token", 7*24*time.Hour)),
//	    ),
//	    storefront.WithHandlers(
//	        handlers.NewAuth(),
//	        handlers.NewCatalog(catalogSvc),
//	        handlers.NewCart(),
//	    ),
//	    storefront.WithHealthChecks(
//	        storefront.WithReadinessCheck("api", api.Ping),
//	    ),
//	)
//
//	if err := app.Run(cfg.Address, storefront.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes:
//
//	func (h *Cart) Routes(r storefront.Router) {
//	    r.Group(func(r storefront.Router) {
//	        r.Use(middlewares.RequireSession(views.Loading()))
//	        r.GET("/cart", h.show)
//	        r.POST("/cart/items/{id}/increment", h.increment)
//	    })
//	}
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns. Global middleware
// is applied with [WithMiddleware]; route middleware is passed to the route
// methods or added to a group with Use.
//
// # Graceful Shutdown
//
// [App.Run] blocks until SIGINT/SIGTERM, drains in-flight requests and then
// runs the shutdown hooks in order.
package storefront
