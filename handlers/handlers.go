// Package handlers implements the storefront pages and the actions behind
// their forms.
//
// Every handler reads the visitor opened by middlewares.Visitor from the
// request context. Actions answer regular form posts with a redirect and
// a flash toast, and htmx requests with the fragment to swap plus
// out-of-band updates for the cart badge and the toast stack.
package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/htmx"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/pkg/visitor"
	"github.com/dmitrymomot/storefront/views"
)

// flashToast is the flash key carrying a toast across a redirect.
const flashToast = "toast"

// requireSession gates the pages that need a signed-in visitor.
func requireSession() storefront.Middleware {
	return middlewares.RequireSession(views.Loading())
}

// current returns the request's visitor.
func current(c storefront.Context) (*visitor.Visitor, error) {
	if v := visitor.FromContext(c); v != nil {
		return v, nil
	}
	return nil, storefront.ErrInternal("visitor middleware is not installed")
}

// newPage collects the layout data and consumes the pending toast.
func newPage(c storefront.Context, title string) views.Page {
	p := views.Page{Title: title, Path: c.Request().URL.Path}
	if v := visitor.FromContext(c); v != nil {
		p.User = v.User()
		p.CartCount = v.Cart.Count()
	}

	var t toast.Toast
	switch err := c.Flash(flashToast, &t); {
	case err == nil:
		p.Toast = &t
	case errors.Is(err, cookie.ErrNotFound), errors.Is(err, cookie.ErrNoSecret):
	default:
		c.LogWarn("read toast", "error", err)
	}
	return p
}

// notify queues t for the next page the visitor sees.
func notify(c storefront.Context, t toast.Toast) {
	if err := c.SetFlash(flashToast, t); err != nil && !errors.Is(err, cookie.ErrNoSecret) {
		c.LogWarn("write toast", "error", err)
	}
}

// redirectWith redirects to target with a toast shown on arrival.
func redirectWith(c storefront.Context, target string, t toast.Toast) error {
	notify(c, t)
	return c.Redirect(http.StatusSeeOther, target)
}

// toastOnly answers an htmx action that swaps nothing but a toast.
func toastOnly(c storefront.Context, t toast.Toast) error {
	return c.Render(http.StatusOK, views.Toast(t, true), htmx.WithReswap(htmx.SwapNone))
}

// failure picks the toast for a failed API call: the connectivity notice,
// the server's own message, or the default for key.
func failure(err error, key string) toast.Toast {
	if errors.Is(err, apiclient.ErrNetwork) {
		return toast.Get(toast.NetworkError)
	}
	return toast.Errorf("%s", apiclient.Message(err, toast.Get(key).Message))
}
