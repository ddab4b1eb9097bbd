package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/storefront/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout bounds the request context. API calls made with the context
// abort once the deadline passes; if the handler then returns without
// having written a response, a *TimeoutError is returned instead of its
// own error.
//
// The handler runs on the request goroutine, so it never outlives the
// request and never races the error handler for the ResponseWriter.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Written() {
				c.LogWarn("request timeout", "timeout", timeout.String())
				return &TimeoutError{Duration: timeout, Err: err}
			}
			return err
		}
	}
}
