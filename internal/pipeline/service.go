// Package pipeline wires extraction, matching, storage and feedback into the
// operations exposed by the HTTP API, the queue worker, the MCP tools and the
// CLI.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/advisor"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/extraction"
	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/fetch"
	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

// Store is the persistence the service needs. *db.DB implements it.
type Store interface {
	SaveResume(ctx context.Context, hash, text string, ex types.ResumeExtraction) (*db.ResumeRecord, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error)
	SaveJob(ctx context.Context, hash, text, sourceURL string, ex types.JobExtraction) (*db.JobRecord, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.JobRecord, error)
	SaveMatch(ctx context.Context, m db.NewMatch) (uuid.UUID, error)
	ListMatches(ctx context.Context, resumeID uuid.UUID, limit int) ([]db.MatchRecord, error)
	SaveSearch(ctx context.Context, rec db.SearchRecord) error
	GetSearch(ctx context.Context, id uuid.UUID) (*db.SearchRecord, error)
	ListSearches(ctx context.Context, limit int) ([]db.SearchRecord, error)
	SaveFeedback(ctx context.Context, fb types.Feedback) (uuid.UUID, error)
	ListFeedback(ctx context.Context, resumeID uuid.UUID) ([]types.Feedback, error)
	ListSearchFeedback(ctx context.Context, searchIDs []string) ([]types.Feedback, error)
	Ping(ctx context.Context) error
}

// ProgressEvent reports a finished stage of a batch
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ProgressCallback is called when a batch stage completes
type ProgressCallback func(event ProgressEvent)

// Batch stages
const (
	StageResume = "resume"
	StageJobs   = "jobs"
	StageMatch  = "match"
)

// Config wires a Service. Extractor and Matcher are required.
type Config struct {
	Extractor *extraction.Extractor
	Matcher   *matching.Matcher
	Fetcher   *fetch.Fetcher
	// Advisor defaults to a rule-only advisor
	Advisor *advisor.Advisor
	// Store may be nil; operations that need it return ErrStoreUnavailable
	Store       Store
	Logger      *zap.Logger
	Concurrency int
	OnProgress  ProgressCallback
}

// Service is safe for concurrent use
type Service struct {
	extractor   *extraction.Extractor
	matcher     *matching.Matcher
	fetcher     *fetch.Fetcher
	advisor     *advisor.Advisor
	store       Store
	log         *zap.Logger
	validate    *validator.Validate
	concurrency int
	onProgress  ProgressCallback
}

// New creates a Service
func New(cfg Config) *Service {
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.NewFetcher(fetch.FetcherConfig{Logger: cfg.Logger})
	}
	if cfg.Advisor == nil {
		cfg.Advisor = advisor.New(advisor.Config{Logger: cfg.Logger})
	}
	return &Service{
		extractor:   cfg.Extractor,
		matcher:     cfg.Matcher,
		fetcher:     cfg.Fetcher,
		advisor:     cfg.Advisor,
		store:       cfg.Store,
		log:         logger.OrNop(cfg.Logger).Named("pipeline"),
		validate:    validator.New(),
		concurrency: cfg.Concurrency,
		onProgress:  cfg.OnProgress,
	}
}

// HasStore reports whether persistence is configured
func (s *Service) HasStore() bool {
	return s.store != nil
}

// Ping checks the store when one is configured
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	return s.store.Ping(ctx)
}

func (s *Service) emit(stage, message string) {
	if s.onProgress != nil {
		s.onProgress(ProgressEvent{Stage: stage, Message: message})
	}
}

// ExtractResume cleans and extracts a resume, storing it when asked
func (s *Service) ExtractResume(ctx context.Context, req ExtractRequest) (*ResumeResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}
	if req.Save && s.store == nil {
		return nil, ErrStoreUnavailable
	}

	text := ingestion.CleanText(req.Text)
	result := &ResumeResult{
		ContentHash: extraction.ContentHash(text),
		Extraction:  s.extractor.ExtractResume(ctx, text, req.Options),
	}
	if req.Save {
		rec, err := s.store.SaveResume(ctx, result.ContentHash, text, result.Extraction)
		if err != nil {
			return nil, err
		}
		result.ID = rec.ID.String()
	}
	return result, nil
}

// ExtractJob cleans and extracts a job posting, storing it when asked
func (s *Service) ExtractJob(ctx context.Context, req ExtractRequest) (*JobResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}
	if req.Save && s.store == nil {
		return nil, ErrStoreUnavailable
	}

	text := ingestion.CleanText(req.Text)
	result := &JobResult{
		ContentHash: extraction.ContentHash(text),
		Extraction:  s.extractor.ExtractJob(ctx, text, req.Options),
	}
	if req.Save {
		rec, err := s.store.SaveJob(ctx, result.ContentHash, text, req.SourceURL, result.Extraction)
		if err != nil {
			return nil, err
		}
		result.ID = rec.ID.String()
	}
	return result, nil
}

// FetchJob downloads a job posting and extracts it
func (s *Service) FetchJob(ctx context.Context, url string, browser bool, opts extraction.Options, save bool) (*JobResult, error) {
	page, err := s.fetcher.FetchJob(ctx, url, browser)
	if err != nil {
		return nil, err
	}
	return s.ExtractJob(ctx, ExtractRequest{Text: page.Text, SourceURL: url, Options: opts, Save: save})
}

// Match runs the fast matcher on one pair
func (s *Service) Match(ctx context.Context, req MatchRequest) (*types.MatchScore, error) {
	pair, err := s.resolvePair(ctx, req)
	if err != nil {
		return nil, err
	}

	var score types.MatchScore
	if req.Embed {
		score = s.matcher.MatchWithEmbeddings(ctx, pair.resume, pair.job, pair.resumeText, pair.jobText)
	} else {
		score = s.matcher.FastMatch(pair.resume, pair.job, nil, nil)
	}
	s.saveMatch(ctx, pair, matching.ModeFast, score.TotalScore, score)
	return &score, nil
}

// PreciseMatch asks the model for a verdict on one pair
func (s *Service) PreciseMatch(ctx context.Context, req MatchRequest) (*types.PreciseResult, error) {
	pair, err := s.resolvePair(ctx, req)
	if err != nil {
		return nil, err
	}

	m := s.matcher
	if req.FeedbackWeights && pair.resumeID != uuid.Nil {
		analysis, err := s.analyze(ctx, pair.resumeID)
		if err != nil {
			return nil, err
		}
		m = m.WithWeights(analysis.Weights)
	}

	result := m.PreciseMatch(ctx, pair.resume, pair.job, pair.resumeText, pair.jobText)
	s.saveMatch(ctx, pair, matching.ModePrecise, result.Score, result)
	return &result, nil
}

// Batch scores one resume against every job of the request. With a store
// configured the search is recorded under its SearchID, together with the
// matches of stored jobs when the resume is stored too.
func (s *Service) Batch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, inputError(err)
	}
	start := time.Now()

	resume, resumeText, resumeID, err := s.resolveResume(ctx, req.ResumeInput, req.Options)
	if err != nil {
		return nil, err
	}
	s.emit(StageResume, "resume ready")

	candidates, excluded := s.resolveJobs(ctx, req.Jobs, req.Options)
	s.emit(StageJobs, fmt.Sprintf("%d jobs ready, %d excluded", len(candidates), excluded))

	strategy := req.Strategy
	m := s.matcher
	if req.Plan != nil {
		m = m.WithWeights(req.Plan.Weights)
		if strategy == "" {
			strategy = req.Plan.Radius
		}
	}
	matches := m.BatchMatch(ctx, resume, resumeText, candidates, matching.BatchOptions{
		Concurrency: s.concurrency,
		Limit:       req.Limit,
		MinScore:    req.MinScore,
		Precise:     req.Precise,
		Embed:       req.Embed,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.emit(StageMatch, fmt.Sprintf("%d matches", len(matches)))

	result := &BatchResult{
		SearchID: uuid.NewString(),
		Strategy: strategy,
		Matches:  matches,
		Excluded: excluded,
	}
	elapsed := time.Since(start)
	s.saveSearch(ctx, req, result, resumeID, elapsed)

	s.log.Info("batch finished",
		zap.String("search_id", result.SearchID),
		zap.String("strategy", strategy),
		zap.Int("jobs", len(req.Jobs)),
		zap.Int("matches", len(matches)),
		zap.Int("excluded", excluded),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

// RecordFeedback stores one candidate interaction
func (s *Service) RecordFeedback(ctx context.Context, fb types.Feedback) (string, error) {
	if err := s.validate.Struct(fb); err != nil {
		return "", inputError(err)
	}
	if s.store == nil {
		return "", ErrStoreUnavailable
	}
	id, err := s.store.SaveFeedback(ctx, fb)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Weights analyzes the feedback stored for a resume
func (s *Service) Weights(ctx context.Context, resumeID string) (*WeightsResult, error) {
	id, err := uuid.Parse(resumeID)
	if err != nil {
		return nil, &InputError{Field: "resume_id", Message: "must be a UUID"}
	}
	analysis, err := s.analyze(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WeightsResult{ResumeID: id.String(), Analysis: analysis}, nil
}

func (s *Service) analyze(ctx context.Context, resumeID uuid.UUID) (feedback.Analysis, error) {
	if s.store == nil {
		return feedback.Analysis{}, ErrStoreUnavailable
	}
	records, err := s.store.ListFeedback(ctx, resumeID)
	if err != nil {
		return feedback.Analysis{}, err
	}
	return feedback.Analyze(records, s.matcher.Weights()), nil
}
