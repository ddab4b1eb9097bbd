package middlewares_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal"
	"github.com/dmitrymomot/storefront/middlewares"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs the written status", func(t *testing.T) {
		t.Parallel()

		records := &recordHandler{}
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		serveWith(t, req, []internal.Option{internal.WithLogger(slog.New(records))}, func(c internal.Context) error {
			return c.String(http.StatusOK, "list")
		}, middlewares.RequestLogger())

		attrs := records.attrs("request")
		require.NotNil(t, attrs)
		require.Equal(t, "GET", attrs["method"].String())
		require.Equal(t, "/products", attrs["path"].String())
		require.Equal(t, int64(http.StatusOK), attrs["status"].Int64())
		require.Equal(t, int64(4), attrs["bytes"].Int64())
	})

	t.Run("derives status from unhandled errors", func(t *testing.T) {
		t.Parallel()

		records := &recordHandler{}
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		serveWith(t, req, []internal.Option{internal.WithLogger(slog.New(records))}, func(c internal.Context) error {
			return internal.ErrBadGateway("upstream", internal.WithError(errors.New("refused")))
		}, middlewares.RequestLogger())

		attrs := records.attrs("request")
		require.Equal(t, int64(http.StatusBadGateway), attrs["status"].Int64())
		require.Contains(t, attrs["error"].String(), "upstream")
	})
}
