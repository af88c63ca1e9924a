package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adrockmkt/lead-scraper-maps/internal/telemetry"
)

type pingerFunc func() error

func (f pingerFunc) Ping() error { return f() }

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, zap.NewNop())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyzReflectsStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		store    Pinger
		wantCode int
	}{
		{name: "no store", store: nil, wantCode: http.StatusOK},
		{name: "healthy store", store: pingerFunc(func() error { return nil }), wantCode: http.StatusOK},
		{name: "broken store", store: pingerFunc(func() error { return errors.New("locked") }), wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewServer(tt.store, zap.NewNop())
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	telemetry.Init()
	telemetry.ObserveLead("qualified")

	s := NewServer(nil, zap.NewNop())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leads_processed_total")
}
