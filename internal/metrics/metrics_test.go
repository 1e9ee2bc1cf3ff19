package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordExtraction(t *testing.T) {
	m := New()
	m.RecordExtraction("resume", "rule", 0.8)
	m.RecordExtraction("resume", "rule", 0.9)
	m.RecordExtraction("job", "llm", 0.95)
	m.RecordExtractionFallback("job")

	assert.InDelta(t, 2, testutil.ToFloat64(m.extractionsTotal.WithLabelValues("resume", "rule")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.extractionsTotal.WithLabelValues("job", "llm")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.extractionFallbacks.WithLabelValues("job")), 1e-9)
}

func TestMetrics_RecordMatch(t *testing.T) {
	m := New()
	m.RecordMatch("fast", 88, 2*time.Millisecond)
	m.RecordGateReject()
	m.RecordPreciseFallback()

	assert.InDelta(t, 1, testutil.ToFloat64(m.matchesTotal.WithLabelValues("fast")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.gateRejectsTotal), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.preciseFallbacks), 1e-9)
}

func TestMetrics_RecordAdvisorFallback(t *testing.T) {
	m := New()
	m.RecordAdvisorFallback("plan")
	m.RecordAdvisorFallback("plan")

	assert.InDelta(t, 2, testutil.ToFloat64(m.advisorFallbacks.WithLabelValues("plan")), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(m.advisorFallbacks.WithLabelValues("analysis")), 1e-9)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordExtraction("resume", "rule", 0.5)
		m.RecordExtractionFallback("resume")
		m.RecordMatch("fast", 50, time.Second)
		m.RecordGateReject()
		m.RecordPreciseFallback()
		m.RecordAdvisorFallback("analysis")
	})
	assert.Nil(t, m.Registry())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resumes/abc-123/weights", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/resumes/{id}/weights", "404")), 1e-9)

	rec = httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "jobmatch_http_requests_total"))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/resumes/{id}/weights", normalizePath("/resumes/42/weights"))
	assert.Equal(t, "/resumes/{id}", normalizePath("/resumes/42"))
	assert.Equal(t, "/match", normalizePath("/match"))
}
