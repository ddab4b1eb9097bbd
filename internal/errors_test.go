package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal"
)

func TestIsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		err := internal.ErrNotFound("Product not found")
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("catalog: %w", internal.ErrBadGateway("upstream"))
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("joined HTTPError", func(t *testing.T) {
		t.Parallel()
		err := errors.Join(errors.New("first"), internal.ErrGatewayTimeout("slow"))
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(errors.New("boom")))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(nil))
	})
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped error keeps fields", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("dial tcp: refused")
		err := fmt.Errorf("handler: %w", internal.ErrBadGateway("Network error",
			internal.WithTitle("Store unavailable"),
			internal.WithError(cause),
		))

		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		require.Equal(t, http.StatusBadGateway, got.Code)
		require.Equal(t, "Network error", got.Message)
		require.Equal(t, "Store unavailable", got.Title)
		require.ErrorIs(t, got, cause)
	})

	t.Run("unrelated error returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("plain")))
	})
}

func TestHTTPError_Error(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Not Found", internal.NewHTTPError(http.StatusNotFound, "").Error())
	require.Equal(t, "Gone", internal.NewHTTPError(http.StatusGone, "Gone").Error())
	require.Equal(t, "Bad Request", internal.ErrBadRequest("x").StatusText())
}
