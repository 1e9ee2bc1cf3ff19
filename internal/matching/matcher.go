package matching

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/metrics"
	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

const defaultMaxExternalCalls = 4

// Match modes reported to metrics
const (
	ModeFast    = "fast"
	ModePrecise = "precise"
)

// Config wires the collaborators of a Matcher. Client and Embedder are optional:
// without a client every precise match falls back, without an embedder the
// semantic dimension stays neutral.
type Config struct {
	Client   llm.Client
	Embedder llm.Embedder
	Tables   *taxonomy.Tables
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Weights is the seven-dimension vector used to verify precise verdicts
	Weights types.Weights

	// MaxExternalCalls bounds concurrent model and embedding requests
	MaxExternalCalls int64
}

// Matcher combines the fast scorer with model-backed analysis
type Matcher struct {
	scorer   *Scorer
	client   llm.Client
	embedder llm.Embedder
	log      *zap.Logger
	metrics  *metrics.Metrics
	weights  types.Weights
	calls    *semaphore.Weighted
}

// New creates a Matcher
func New(cfg Config) *Matcher {
	weights := cfg.Weights
	if len(weights) == 0 {
		weights = types.DefaultWeights()
	}
	limit := cfg.MaxExternalCalls
	if limit <= 0 {
		limit = defaultMaxExternalCalls
	}
	return &Matcher{
		scorer:   NewScorer(cfg.Tables),
		client:   cfg.Client,
		embedder: cfg.Embedder,
		log:      logger.OrNop(cfg.Logger).Named("matching"),
		metrics:  cfg.Metrics,
		weights:  weights.Normalize(),
		calls:    semaphore.NewWeighted(limit),
	}
}

// WithWeights returns a Matcher sharing the collaborators and call budget of m
// but verifying precise verdicts against w (renormalized).
func (m *Matcher) WithWeights(w types.Weights) *Matcher {
	if len(w) == 0 {
		return m
	}
	clone := *m
	clone.weights = w.Normalize()
	return &clone
}

// Weights returns a copy of the seven-dimension weights in use
func (m *Matcher) Weights() types.Weights {
	return m.weights.Clone()
}

// FastMatch scores the pair locally and records the outcome
func (m *Matcher) FastMatch(resume *types.ResumeProfile, job *types.JobProfile, resumeVec, jobVec []float32) types.MatchScore {
	start := time.Now()
	score := m.scorer.FastMatch(resume, job, resumeVec, jobVec)
	m.metrics.RecordMatch(ModeFast, score.TotalScore, time.Since(start))

	if Gated(score) {
		m.metrics.RecordGateReject()
		m.log.Debug("direction gate applied",
			zap.String("job_title", jobTitle(job)),
			zap.Float64("score", score.TotalScore))
	}
	return score
}

// MatchWithEmbeddings computes the resume and job vectors through the Embedder
// and runs FastMatch with them. Any embedding failure leaves the semantic
// dimension at its neutral value.
func (m *Matcher) MatchWithEmbeddings(
	ctx context.Context,
	resume *types.ResumeProfile,
	job *types.JobProfile,
	resumeText, jobText string,
) types.MatchScore {
	resumeVec := m.embed(ctx, "resume", ResumeEmbeddingText(resume, resumeText))
	var jobVec []float32
	if resumeVec != nil {
		jobVec = m.embed(ctx, "job", JobEmbeddingText(job, jobText))
	}
	return m.FastMatch(resume, job, resumeVec, jobVec)
}

// embed returns nil when no vector could be produced
func (m *Matcher) embed(ctx context.Context, kind, text string) []float32 {
	if m.embedder == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	if err := m.calls.Acquire(ctx, 1); err != nil {
		m.log.Warn("embedding skipped", zap.String("kind", kind), zap.Error(err))
		return nil
	}
	defer m.calls.Release(1)

	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		m.log.Warn("embedding failed, semantic score stays neutral",
			zap.String("kind", kind), zap.Error(err))
		return nil
	}
	return vec
}

// ResumeEmbeddingText prefers the raw resume text and otherwise summarizes the profile
func ResumeEmbeddingText(resume *types.ResumeProfile, text string) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	if resume == nil {
		return ""
	}
	parts := []string{resume.CurrentPosition, resume.Education, resume.Major}
	if resume.JobIntention != nil {
		parts = append(parts, resume.JobIntention.Positions...)
	}
	parts = append(parts, resume.Skills.Flatten()...)
	parts = append(parts, resume.SelfEvaluation)
	return joinNonEmpty(parts, " ")
}

// JobEmbeddingText prefers the raw job text and otherwise summarizes the profile
func JobEmbeddingText(job *types.JobProfile, text string) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	if job == nil {
		return ""
	}
	parts := []string{job.Title, job.ExperienceRequired, job.EducationRequired}
	parts = append(parts, job.RequiredSkills...)
	parts = append(parts, job.PreferredSkills...)
	parts = append(parts, job.Responsibilities...)
	return joinNonEmpty(parts, " ")
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func jobTitle(job *types.JobProfile) string {
	if job == nil {
		return ""
	}
	return job.Title
}
