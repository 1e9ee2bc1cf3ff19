// Package server exposes extraction, matching, feedback and search planning
// over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/metrics"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/server/ratelimit"
)

const shutdownGrace = 30 * time.Second

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit float64 // requests per second per client; 0 disables limiting
	RateBurst int
	Service   *pipeline.Service
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Server is the REST front end of a pipeline.Service
type Server struct {
	httpServer  *http.Server
	service     *pipeline.Service
	metrics     *metrics.Metrics
	log         *zap.Logger
	rateLimiter *ratelimit.Limiter
}

// New wires the routes and middleware. Nothing listens until Run.
func New(cfg Config) *Server {
	s := &Server{
		service:     cfg.Service,
		metrics:     cfg.Metrics,
		log:         logger.OrNop(cfg.Logger).Named("server"),
		rateLimiter: ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst)),
	}

	routes := map[string]http.HandlerFunc{
		"POST /extract/resume":       s.handleExtractResume,
		"POST /extract/job":          s.handleExtractJob,
		"POST /fetch/job":            s.handleFetchJob,
		"POST /match":                s.handleMatch,
		"POST /match/precise":        s.handlePreciseMatch,
		"POST /match/batch":          s.handleBatchMatch,
		"POST /feedback":             s.handleFeedback,
		"GET /resumes/{id}/weights":  s.handleWeights,
		"GET /resumes/{id}/matches":  s.handleMatchHistory,
		"GET /searches/{id}/quality": s.handleSearchQuality,
		"GET /strategies/top":        s.handleTopStrategies,
		"POST /analyze/resume":       s.handleAnalyzeResume,
		"POST /plan/search":          s.handlePlanSearch,
		"GET /health":                s.handleHealth,
		"GET /metrics":               s.metrics.Handler().ServeHTTP,
	}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      s.Handler(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // precise batches run long
		IdleTimeout:  time.Minute,
	}
	return s
}

// Handler wraps routes in the middleware chain. The rate limiter runs first
// so rejected requests cost nothing downstream.
func (s *Server) Handler(routes http.Handler) http.Handler {
	h := s.withCORS(routes)
	h = s.withLogging(h)
	h = s.metrics.Middleware(h)
	return s.withRateLimit(h)
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	failed := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	s.log.Info("draining connections", zap.Duration("grace", shutdownGrace))
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
