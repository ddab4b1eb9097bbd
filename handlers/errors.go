package handlers

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/htmx"
	"github.com/dmitrymomot/storefront/pkg/toast"
	"github.com/dmitrymomot/storefront/pkg/visitor"
	"github.com/dmitrymomot/storefront/views"
)

// ErrorHandler renders errors returned from handlers.
//
// A rejected token from any API call ends the session and sends the
// visitor to log in, back to the page they were on. Everything else
// renders the error page, or the error fragment in place of the main
// content for htmx requests.
func ErrorHandler(c storefront.Context, err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		if v := visitor.FromContext(c); v != nil {
			v.Session.Expire(c)
		}
		return redirectWith(c, middlewares.LoginURL(middlewares.ReturnPath(c.Request())), toast.Get(toast.SessionExpired))
	}
	return renderProblem(c, problemFor(err))
}

// NotFound renders the 404 page.
func NotFound(c storefront.Context) error {
	return renderProblem(c, views.Problem{
		Code:    http.StatusNotFound,
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
	})
}

// MethodNotAllowed renders the 405 page.
func MethodNotAllowed(c storefront.Context) error {
	return renderProblem(c, views.Problem{
		Code:    http.StatusMethodNotAllowed,
		Title:   "Method not allowed",
		Message: "This page can't handle that request.",
	})
}

func renderProblem(c storefront.Context, p views.Problem) error {
	if c.IsPartial() {
		return c.Render(p.Code, views.ErrorContent(p),
			htmx.WithRetarget("#main"),
			htmx.WithReswap(htmx.SwapInnerHTML),
		)
	}
	return c.Render(p.Code, views.ErrorPage(newPage(c, p.Title), p))
}

func problemFor(err error) views.Problem {
	if httpErr := storefront.AsHTTPError(err); httpErr != nil {
		return views.Problem{Code: httpErr.Code, Title: httpErr.Title, Message: httpErr.Error()}
	}

	switch {
	case middlewares.IsTimeoutError(err):
		return views.Problem{
			Code:    http.StatusGatewayTimeout,
			Title:   "Request timed out",
			Message: "The store took too long to respond. Please try again.",
		}
	case errors.Is(err, apiclient.ErrNetwork):
		return views.Problem{
			Code:    http.StatusBadGateway,
			Title:   "Store unavailable",
			Message: toast.Get(toast.NetworkError).Message,
		}
	case errors.Is(err, apiclient.ErrNotFound):
		return views.Problem{
			Code:    http.StatusNotFound,
			Title:   "Not found",
			Message: "We couldn't find what you were looking for.",
		}
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return views.Problem{
			Code:    http.StatusBadGateway,
			Title:   "Store unavailable",
			Message: apiclient.Message(err, "The store could not complete your request."),
		}
	}
	return views.Problem{
		Code:    http.StatusInternalServerError,
		Title:   "Something went wrong",
		Message: "An unexpected error occurred. Please try again.",
	}
}
