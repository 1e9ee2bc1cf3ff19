package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/pipeline"
	"github.com/jonathan/job-matcher/internal/types"
)

func (s *Server) handleExtractResume(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ExtractRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.service.ExtractResume(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, statusFor(result.ID), result)
}

func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ExtractRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.service.ExtractJob(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, statusFor(result.ID), result)
}

// FetchJobRequest is the body of POST /fetch/job
type FetchJobRequest struct {
	URL     string             `json:"url"`
	Browser bool               `json:"browser,omitempty"`
	Save    bool               `json:"save,omitempty"`
	Options extraction.Options `json:"options"`
}

func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	var req FetchJobRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.URL == "" {
		s.fail(w, r, &ErrValidation{Field: "url", Message: "required"})
		return
	}
	result, err := s.service.FetchJob(r.Context(), req.URL, req.Browser, req.Options, req.Save)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, statusFor(result.ID), result)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req pipeline.MatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	score, err := s.service.Match(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, score)
}

func (s *Server) handlePreciseMatch(w http.ResponseWriter, r *http.Request) {
	var req pipeline.MatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.service.PreciseMatch(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBatchMatch(w http.ResponseWriter, r *http.Request) {
	var req pipeline.BatchRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.service.Batch(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb types.Feedback
	if err := readJSON(w, r, &fb); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.service.RecordFeedback(r.Context(), fb)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Weights(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMatchHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	matches, err := s.service.MatchHistory(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleSearchQuality(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.SearchQuality(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTopStrategies(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	strategies, err := s.service.TopStrategies(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategies)
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req pipeline.AnalyzeRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	analysis, err := s.service.AnalyzeResume(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handlePlanSearch(w http.ResponseWriter, r *http.Request) {
	var req pipeline.PlanRequest
	if err := readJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.service.PlanSearch(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

// handleHealth reports liveness and, when configured, database reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "database": "disabled"}
	status := http.StatusOK
	if s.service.HasStore() {
		if err := s.service.Ping(r.Context()); err != nil {
			resp["status"], resp["database"] = "degraded", "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp["database"] = "ok"
		}
	}
	s.writeJSON(w, status, resp)
}

// statusFor returns 201 when the extraction was stored
func statusFor(id string) int {
	if id != "" {
		return http.StatusCreated
	}
	return http.StatusOK
}

// queryInt reads an optional non-negative integer query parameter; absent is 0
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
