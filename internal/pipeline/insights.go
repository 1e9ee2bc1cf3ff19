package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/types"
)

// recentSearches bounds how far back strategy ranking looks
const recentSearches = 100

// DefaultStrategyLimit is the number of strategies TopStrategies returns by default
const DefaultStrategyLimit = 5

// MatchHistory returns the stored matches of a resume, best first
func (s *Service) MatchHistory(ctx context.Context, resumeID string, limit int) ([]db.MatchRecord, error) {
	id, err := uuid.Parse(resumeID)
	if err != nil {
		return nil, &InputError{Field: "resume_id", Message: "must be a UUID"}
	}
	if limit < 0 {
		return nil, &InputError{Field: "limit", Message: "must not be negative"}
	}
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	matches, err := s.store.ListMatches(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []db.MatchRecord{}
	}
	return matches, nil
}

// SearchQuality scores the feedback recorded against one stored search
func (s *Service) SearchQuality(ctx context.Context, searchID string) (*QualityResult, error) {
	id, err := uuid.Parse(searchID)
	if err != nil {
		return nil, &InputError{Field: "search_id", Message: "must be a UUID"}
	}
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	search, err := s.store.GetSearch(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListSearchFeedback(ctx, []string{id.String()})
	if err != nil {
		return nil, err
	}
	return &QualityResult{
		SearchID:     id.String(),
		Strategy:     search.Strategy,
		JobsReturned: search.JobsReturned,
		Interactions: len(records),
		Quality:      feedback.RecommendationQuality(records, search.JobsReturned),
	}, nil
}

// TopStrategies ranks the strategies of recent searches by the quality of the
// feedback they received, best first. limit <= 0 means DefaultStrategyLimit.
func (s *Service) TopStrategies(ctx context.Context, limit int) ([]feedback.RankedStrategy, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = DefaultStrategyLimit
	}
	searches, err := s.store.ListSearches(ctx, recentSearches)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(searches))
	for _, search := range searches {
		if search.Strategy != "" {
			ids = append(ids, search.ID.String())
		}
	}
	records, err := s.store.ListSearchFeedback(ctx, ids)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]types.Feedback, len(ids))
	for _, r := range records {
		grouped[r.SearchID] = append(grouped[r.SearchID], r)
	}

	outcomes := make([]feedback.SearchOutcome, 0, len(ids))
	for _, search := range searches {
		id := search.ID.String()
		outcomes = append(outcomes, feedback.SearchOutcome{
			SearchID:     id,
			Strategy:     search.Strategy,
			JobsReturned: search.JobsReturned,
			Feedback:     grouped[id],
		})
	}
	return feedback.RankStrategies(outcomes, limit), nil
}
