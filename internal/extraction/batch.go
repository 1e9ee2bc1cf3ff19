package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-matcher/internal/types"
)

const defaultBatchConcurrency = 4

// Document is one input of a batch extraction
type Document struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind" validate:"required,oneof=resume job"`
	Text string `json:"text" validate:"required"`
}

// BatchResult carries the extraction for one document; exactly one of Resume, Job or Err is set
type BatchResult struct {
	ID     string                  `json:"id"`
	Kind   Kind                    `json:"kind"`
	Hash   string                  `json:"content_hash"`
	Resume *types.ResumeExtraction `json:"resume,omitempty"`
	Job    *types.JobExtraction    `json:"job,omitempty"`
	Err    error                   `json:"-"`
}

// ExtractBatch extracts documents concurrently. Results keep the input order; a
// document with an unknown kind or a cancelled context gets Err set and the
// others still complete.
func (e *Extractor) ExtractBatch(ctx context.Context, docs []Document, opts Options, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	results := make([]BatchResult, len(docs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			results[i] = e.extractOne(ctx, doc, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.log.Info("batch extraction finished", zap.Int("documents", len(docs)), zap.Int("failed", failed))
	return results
}

func (e *Extractor) extractOne(ctx context.Context, doc Document, opts Options) BatchResult {
	result := BatchResult{ID: doc.ID, Kind: doc.Kind, Hash: ContentHash(doc.Text)}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	switch doc.Kind {
	case KindResume:
		extraction := e.ExtractResume(ctx, doc.Text, opts)
		result.Resume = &extraction
	case KindJob:
		extraction := e.ExtractJob(ctx, doc.Text, opts)
		result.Job = &extraction
	default:
		result.Err = fmt.Errorf("unknown document kind %q", doc.Kind)
		e.log.Warn("skipping document", zap.String("id", doc.ID), zap.Error(result.Err))
	}
	return result
}
