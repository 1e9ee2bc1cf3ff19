package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/feedback"
)

// planReferences is how many top strategies inform a new plan
const planReferences = 3

// AnalyzeResume reviews one resume. The review falls back to rules rather
// than failing when the model cannot answer.
func (s *Service) AnalyzeResume(ctx context.Context, req AnalyzeRequest) (*advisor.ResumeAnalysis, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}
	resume, text, _, err := s.resolveResume(ctx, req.ResumeInput, req.Options)
	if err != nil {
		return nil, err
	}
	analysis := s.advisor.AnalyzeResume(ctx, resume, text)
	return &analysis, nil
}

// PlanSearch builds a search plan for one resume. A stored resume contributes
// its feedback-optimized weights and, with a store configured, the best recent
// strategies are offered to the model as references.
func (s *Service) PlanSearch(ctx context.Context, req PlanRequest) (*advisor.SearchPlan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}
	resume, text, resumeID, err := s.resolveResume(ctx, req.ResumeInput, req.Options)
	if err != nil {
		return nil, err
	}

	weights := s.matcher.Weights()
	if resumeID != uuid.Nil {
		analysis, err := s.analyze(ctx, resumeID)
		if err != nil {
			return nil, err
		}
		weights = analysis.Weights
	}

	var references []feedback.RankedStrategy
	if s.store != nil {
		if references, err = s.TopStrategies(ctx, planReferences); err != nil {
			s.log.Warn("planning without reference strategies", zap.Error(err))
			references = nil
		}
	}

	plan := s.advisor.PlanSearch(ctx, advisor.PlanInput{
		Analysis:    s.advisor.AnalyzeResume(ctx, resume, text),
		Preferences: req.Preferences,
		Weights:     weights,
		References:  references,
	})
	return &plan, nil
}
