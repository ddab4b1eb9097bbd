package middlewares

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/storefront/internal"
	"github.com/dmitrymomot/storefront/pkg/htmx"
	"github.com/dmitrymomot/storefront/pkg/visitor"
)

// LoginPath is where RequireSession sends signed-out visitors.
const LoginPath = "/login"

// RequireSession gates a route on a signed-in visitor.
//
// While the session is still resolving, the loading component is rendered
// and the handler does not run. A signed-out visitor is redirected to the
// login page with the page they were after in ?next=. Otherwise the
// handler runs.
func RequireSession(loading internal.Component) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			v := visitor.FromContext(c)
			if v == nil {
				return internal.ErrInternal("visitor middleware is not installed")
			}

			state := v.Session.State()
			switch {
			case state.Loading:
				return c.Render(http.StatusOK, loading)
			case !state.IsAuthenticated:
				return c.Redirect(http.StatusSeeOther, LoginURL(ReturnPath(c.Request())))
			}
			return next(c)
		}
	}
}

// LoginURL builds the login link that returns to next afterwards.
func LoginURL(next string) string {
	if next == "" || next == "/" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// ReturnPath is the page a visitor should come back to after signing in.
// For GET it is the request itself; for form posts and htmx actions it is
// the page the action was issued from.
func ReturnPath(r *http.Request) string {
	if r.Method == http.MethodGet && !htmx.IsPartial(r) {
		return r.URL.RequestURI()
	}
	if p := htmx.CurrentPath(r); p != "" {
		return p
	}
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == r.Host) {
			return u.RequestURI()
		}
	}
	return "/"
}

// SafeNext returns next if it is a local absolute path, fallback otherwise.
// It keeps ?next= from turning the login form into an open redirect.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return fallback
	}
	if strings.ContainsAny(next, "\r\n") {
		return fallback
	}
	return next
}
