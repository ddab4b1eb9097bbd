package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		require.True(t, health.Run(context.Background(), nil).Healthy())
	})

	t.Run("one failure marks the report down", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"api":   func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("refused") },
		})
		require.False(t, report.Healthy())
		require.Equal(t, health.StatusUp, report.Checks["api"].Status)
		require.Equal(t, health.StatusDown, report.Checks["redis"].Status)
		require.Equal(t, "refused", report.Checks["redis"].Error)
	})

	t.Run("slow check times out", func(t *testing.T) {
		t.Parallel()

		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))
		require.False(t, report.Healthy())
		require.Equal(t, health.ErrTimeout.Error(), report.Checks["slow"].Error)
	})
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness plain text", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.Liveness()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness json when failing", func(t *testing.T) {
		t.Parallel()

		h := health.Readiness(health.Checks{
			"api": func(context.Context) error { return errors.New("down") },
		})
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Equal(t, health.StatusDown, report.Status)
	})
}
