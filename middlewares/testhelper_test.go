package middlewares_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrymomot/storefront/internal"
)

// serve mounts h at pattern behind mw and sends req through a real App.
func serve(t *testing.T, req *http.Request, h internal.HandlerFunc, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()
	return serveWith(t, req, nil, h, mw...)
}

func serveWith(t *testing.T, req *http.Request, opts []internal.Option, h internal.HandlerFunc, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts,
		internal.WithMiddleware(mw...),
		internal.WithHandlers(route{method: req.Method, path: req.URL.Path, h: h}),
	)
	w := httptest.NewRecorder()
	internal.New(opts...).ServeHTTP(w, req)
	return w
}

type route struct {
	h      internal.HandlerFunc
	method string
	path   string
}

func (rt route) Routes(r internal.Router) {
	switch rt.method {
	case http.MethodPost:
		r.POST(rt.path, rt.h)
	case http.MethodDelete:
		r.DELETE(rt.path, rt.h)
	default:
		r.GET(rt.path, rt.h)
	}
}

// captureErr records the error that reached the app's error handler.
type captureErr struct {
	mu  sync.Mutex
	err error
}

func (ce *captureErr) option() internal.Option {
	return internal.WithErrorHandler(func(c internal.Context, err error) error {
		ce.mu.Lock()
		ce.err = err
		ce.mu.Unlock()
		return c.NoContent(http.StatusInternalServerError)
	})
}

func (ce *captureErr) get() error {
	ce.mu.Lock()
	defer ce.mu.Unlock()
	return ce.err
}

// recordHandler collects log records in memory.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func (h *recordHandler) attrs(msg string) map[string]slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		out := make(map[string]slog.Value)
		r.Attrs(func(a slog.Attr) bool {
			out[a.Key] = a.Value
			return true
		})
		return out
	}
	return nil
}

type text string

func (s text) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(s))
	return err
}
