package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecording(t *testing.T) {
	m := New("seo")

	m.ObserveAnalysis(StatusSuccess, 150*time.Millisecond)
	m.ObserveAnalysis(StatusSuccess, 300*time.Millisecond)
	m.ObserveAnalysis(StatusError, time.Second)
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()

	body := scrape(t, m)
	assert.Contains(t, body, `seo_analyses_total{status="success"} 2`)
	assert.Contains(t, body, `seo_analyses_total{status="error"} 1`)
	assert.Contains(t, body, `seo_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `seo_cache_lookups_total{result="miss"} 2`)
	assert.Contains(t, body, "seo_analysis_duration_seconds_count 3")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveAnalysis(StatusSuccess, time.Second)
		m.ObserveScore(80)
		m.CacheHit()
		m.CacheMiss()
		m.ObserveFetch(1024)
		m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
}

func TestIndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("seo")
		New("seo")
	})
}

func TestHandler(t *testing.T) {
	m := New("seo")
	m.ObserveScore(72)
	m.ObserveHTTP(http.MethodPost, "/api/analyze", http.StatusOK, 20*time.Millisecond)

	body := scrape(t, m)
	assert.Contains(t, body, "seo_overall_score_bucket")
	assert.Contains(t, body, `seo_http_requests_total{method="POST",path="/api/analyze",status="200"} 1`)
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
