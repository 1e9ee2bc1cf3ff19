package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/types"
)

const defaultBatchConcurrency = 8

// ErrMissingJob marks a candidate without a job profile
var ErrMissingJob = errors.New("job profile missing")

// Candidate is one job of a batch
type Candidate struct {
	ID   string            `json:"id"`
	Job  *types.JobProfile `json:"job"`
	Text string            `json:"text,omitempty"`
}

// BatchOptions tunes BatchMatch
type BatchOptions struct {
	// Concurrency bounds the pairs scored at once (default 8)
	Concurrency int
	// Limit keeps only the top N matches when positive
	Limit int
	// MinScore drops matches scoring below it
	MinScore float64
	// Precise runs the model verdict for every pair
	Precise bool
	// Embed computes vectors for the semantic dimension
	Embed bool
}

// RankedMatch is one scored pair of a batch
type RankedMatch struct {
	JobID   string               `json:"job_id"`
	Job     *types.JobProfile    `json:"job"`
	Score   float64              `json:"score"`
	Fast    types.MatchScore     `json:"fast"`
	Precise *types.PreciseResult `json:"precise,omitempty"`
}

// BatchMatch scores one resume against many jobs concurrently. Pairs that fail
// are logged and left out; the rest come back sorted by score (descending,
// input order on ties), then filtered by MinScore and cut to Limit.
func (m *Matcher) BatchMatch(
	ctx context.Context,
	resume *types.ResumeProfile,
	resumeText string,
	candidates []Candidate,
	opts BatchOptions,
) []RankedMatch {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	var resumeVec []float32
	if opts.Embed {
		resumeVec = m.embed(ctx, "resume", ResumeEmbeddingText(resume, resumeText))
	}

	results := make([]*RankedMatch, len(candidates))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			match, err := m.matchOne(ctx, resume, resumeText, resumeVec, c, opts)
			if err != nil {
				m.log.Warn("pair excluded from batch", zap.String("job_id", c.ID), zap.Error(err))
				return nil
			}
			results[i] = match
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]RankedMatch, 0, len(candidates))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	kept := ranked[:0]
	for _, r := range ranked {
		if r.Score >= opts.MinScore {
			kept = append(kept, r)
		}
	}
	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	m.log.Info("batch match finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("scored", len(ranked)),
		zap.Int("returned", len(kept)))
	return kept
}

func (m *Matcher) matchOne(
	ctx context.Context,
	resume *types.ResumeProfile,
	resumeText string,
	resumeVec []float32,
	c Candidate,
	opts BatchOptions,
) (*RankedMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Job == nil {
		return nil, fmt.Errorf("candidate %q: %w", c.ID, ErrMissingJob)
	}

	var jobVec []float32
	if resumeVec != nil {
		jobVec = m.embed(ctx, "job", JobEmbeddingText(c.Job, c.Text))
	}

	fast := m.FastMatch(resume, c.Job, resumeVec, jobVec)
	match := &RankedMatch{JobID: c.ID, Job: c.Job, Score: fast.TotalScore, Fast: fast}

	// a gated pair is not worth a model call
	if opts.Precise && !Gated(fast) {
		precise := m.PreciseMatch(ctx, resume, c.Job, resumeText, c.Text)
		match.Precise = &precise
		match.Score = precise.Score
	}
	return match, nil
}
