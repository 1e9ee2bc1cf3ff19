// Package metrics exposes Prometheus instrumentation for extraction, matching and the HTTP API.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobmatch"

// Metrics owns a private registry with every collector the module records
type Metrics struct {
	registry *prometheus.Registry

	extractionsTotal     *prometheus.CounterVec
	extractionFallbacks  *prometheus.CounterVec
	extractionConfidence *prometheus.HistogramVec
	matchesTotal         *prometheus.CounterVec
	matchDuration        *prometheus.HistogramVec
	matchScore           *prometheus.HistogramVec
	gateRejectsTotal     prometheus.Counter
	preciseFallbacks     prometheus.Counter
	advisorFallbacks     *prometheus.CounterVec

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge
}

// New builds the collectors on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		extractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "total",
				Help:      "Completed extractions by document kind and method.",
			},
			[]string{"kind", "method"},
		),
		extractionFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "llm_fallbacks_total",
				Help:      "Model extractions that failed and fell back to rule output.",
			},
			[]string{"kind"},
		),
		extractionConfidence: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "extraction",
				Name:      "confidence",
				Help:      "Confidence of extraction results.",
				Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			},
			[]string{"kind", "method"},
		),
		matchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "match",
				Name:      "total",
				Help:      "Scored resume-job pairs by mode.",
			},
			[]string{"mode"},
		),
		matchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "match",
				Name:      "duration_seconds",
				Help:      "Time spent scoring one pair by mode.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		matchScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "match",
				Name:      "score",
				Help:      "Distribution of total match scores by mode.",
				Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
			[]string{"mode"},
		),
		gateRejectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "direction_gate_rejects_total",
			Help:      "Pairs rejected by the position-direction gate.",
		}),
		preciseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "precise_fallbacks_total",
			Help:      "Precise matches that fell back to the fast score.",
		}),
		advisorFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "advisor",
				Name:      "fallbacks_total",
				Help:      "Resume analyses and search plans answered by rules instead of the model.",
			},
			[]string{"kind"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
		}),
	}

	registry.MustRegister(
		m.extractionsTotal,
		m.extractionFallbacks,
		m.extractionConfidence,
		m.matchesTotal,
		m.matchDuration,
		m.matchScore,
		m.gateRejectsTotal,
		m.preciseFallbacks,
		m.advisorFallbacks,
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom handlers
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordExtraction counts a finished extraction
func (m *Metrics) RecordExtraction(kind, method string, confidence float64) {
	if m == nil {
		return
	}
	m.extractionsTotal.WithLabelValues(kind, method).Inc()
	m.extractionConfidence.WithLabelValues(kind, method).Observe(confidence)
}

// RecordExtractionFallback counts a failed model extraction
func (m *Metrics) RecordExtractionFallback(kind string) {
	if m == nil {
		return
	}
	m.extractionFallbacks.WithLabelValues(kind).Inc()
}

// RecordMatch observes one scored pair
func (m *Metrics) RecordMatch(mode string, score float64, duration time.Duration) {
	if m == nil {
		return
	}
	m.matchesTotal.WithLabelValues(mode).Inc()
	m.matchScore.WithLabelValues(mode).Observe(score)
	m.matchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordGateReject counts a pair rejected by the direction gate
func (m *Metrics) RecordGateReject() {
	if m == nil {
		return
	}
	m.gateRejectsTotal.Inc()
}

// RecordPreciseFallback counts a precise match served from the fast score
func (m *Metrics) RecordPreciseFallback() {
	if m == nil {
		return
	}
	m.preciseFallbacks.Inc()
}

// RecordAdvisorFallback counts a rule-based resume analysis or search plan
func (m *Metrics) RecordAdvisorFallback(kind string) {
	if m == nil {
		return
	}
	m.advisorFallbacks.WithLabelValues(kind).Inc()
}

// Middleware records request count, latency and in-flight requests
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(r.Method, path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses ID segments so label cardinality stays bounded
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/resumes/"); ok {
		if _, tail, found := strings.Cut(rest, "/"); found {
			return "/resumes/{id}/" + tail
		}
		return "/resumes/{id}"
	}
	return path
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
