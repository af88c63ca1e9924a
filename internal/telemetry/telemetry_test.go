package telemetry

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init() // second call must not re-register collectors

	// Observers must not panic once initialized.
	ObservePlacesRequest("textsearch", "ok")
	ObserveSiteCrawl("crawled")
	ObserveLead("qualified")
	ObserveSkippedLocality()
	ObservePacingDelay(1200 * time.Millisecond)
	ObserveEmailFound("corporate")
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	ObserveLead("qualified")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "leads_processed_total")
}
