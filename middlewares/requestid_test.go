package middlewares_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal"
	"github.com/dmitrymomot/storefront/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates a UUID when no header is present", func(t *testing.T) {
		t.Parallel()

		var got string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := serve(t, req, func(c internal.Context) error {
			got = middlewares.GetRequestID(c)
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())

		_, err := uuid.Parse(got)
		require.NoError(t, err)
		require.Equal(t, got, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps upstream ID in header priority order", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		req.Header.Set("X-Request-ID", "req-1")
		w := serve(t, req, func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID())

		require.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	})

	t.Run("custom headers and generator", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		w := serve(t, req, func(c internal.Context) error {
			return c.NoContent(http.StatusNoContent)
		}, middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace-ID"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
		))

		require.Equal(t, "fixed", w.Header().Get("X-Request-ID"))
	})

	t.Run("extractor exposes the ID to loggers", func(t *testing.T) {
		t.Parallel()

		records := &recordHandler{}
		log := slog.New(records)
		extract := middlewares.RequestIDExtractor()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		serve(t, req, func(c internal.Context) error {
			attr, ok := extract(c)
			require.True(t, ok)
			log.LogAttrs(c, slog.LevelInfo, "seen", attr)
			return nil
		}, middlewares.RequestID())

		require.Equal(t, "req-42", records.attrs("seen")["request_id"].String())

		_, ok := extract(context.Background())
		require.False(t, ok)
	})
}
