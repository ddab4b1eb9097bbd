package middlewares

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/storefront/internal"
)

// DefaultStackSize caps the stack captured for a recovered panic.
const DefaultStackSize = 4 << 10

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize int  // bytes of stack to capture
	NoStack   bool // skip stack capture entirely
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets how much of the stack is captured.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack turns stack capture off.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.NoStack = true
	}
}

// Recover turns a panic in the chain into a *PanicError for the error
// handler, so a broken template or a nil cart renders the error page
// instead of dropping the connection.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the response
// as intended.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if e, ok := r.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(r)
				}

				pe := &PanicError{
					Value:  r,
					Method: c.Request().Method,
					Path:   c.Request().URL.Path,
				}
				attrs := []any{"panic", r, "method", pe.Method, "path", pe.Path}
				if !cfg.NoStack {
					buf := make([]byte, cfg.StackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)

				err = pe
			}()

			return next(c)
		}
	}
}
