package internal

// Handler declares routes on a router.
//
// Example:
//
//	type CartHandler struct {
//	    toasts *toast.Catalog
//	}
//
//	func (h *CartHandler) Routes(r storefront.Router) {
//	    r.GET("/cart", h.show)
//	    r.POST("/cart/items", h.add)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A non-nil error is passed to the
// application's ErrorHandler unless a response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It may short-circuit by returning
// without calling next.
//
// Example:
//
//	func RequireUser(next storefront.HandlerFunc) storefront.HandlerFunc {
//	    return func(c storefront.Context) error {
//	        if visitor.FromContext(c).User() == nil {
//	            return c.Redirect(http.StatusSeeOther, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
