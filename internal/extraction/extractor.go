// Package extraction turns free-form resume and job posting text into structured profiles.
//
// Rules run first. Every targeted field emits an indicator score in [0, 1] and the
// mean of those scores is the extraction confidence. When the confidence is below
// the threshold and the caller allows it, a language model is asked for the full
// JSON profile instead; any model failure falls back to the rule result.
package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/metrics"
	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// DefaultConfidenceThreshold is the rule confidence at or above which the model is never called
	DefaultConfidenceThreshold = 0.7
	// LLMConfidence is the confidence reported for a parsed model extraction
	LLMConfidence = 0.95

	defaultMaxModelCalls = 4
)

// Kind names the document type being extracted
type Kind string

// Document kinds
const (
	KindResume Kind = "resume"
	KindJob    Kind = "job"
)

// Options selects the extraction path for one call
type Options struct {
	AllowLLM bool `json:"allow_llm"`
	// ForceLLM skips the rules; it has no effect unless AllowLLM is also set
	ForceLLM bool `json:"force_llm"`
}

// Config wires an Extractor. Every field is optional.
type Config struct {
	Tables    *taxonomy.Tables
	Client    llm.Client
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Threshold float64
	// MaxModelCalls bounds concurrent model requests across all callers
	MaxModelCalls int64
}

// Extractor is safe for concurrent use
type Extractor struct {
	tables    *taxonomy.Tables
	client    llm.Client
	log       *zap.Logger
	metrics   *metrics.Metrics
	threshold float64
	calls     *semaphore.Weighted
}

// New builds an Extractor, filling unset config with defaults
func New(cfg Config) *Extractor {
	if cfg.Tables == nil {
		cfg.Tables = taxonomy.Default()
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultConfidenceThreshold
	}
	if cfg.MaxModelCalls <= 0 {
		cfg.MaxModelCalls = defaultMaxModelCalls
	}
	return &Extractor{
		tables:    cfg.Tables,
		client:    cfg.Client,
		log:       logger.OrNop(cfg.Logger).Named("extraction"),
		metrics:   cfg.Metrics,
		threshold: cfg.Threshold,
		calls:     semaphore.NewWeighted(cfg.MaxModelCalls),
	}
}

// ExtractResume extracts a resume profile. It never fails: model errors degrade to the rule result.
func (e *Extractor) ExtractResume(ctx context.Context, text string, opts Options) types.ResumeExtraction {
	start := time.Now()
	log := e.log.With(zap.String("kind", string(KindResume)), zap.Int("length", len([]rune(text))))

	result := extractWith(ctx, e, log, KindResume, text, opts, e.resumeByRules, e.resumeByModel)

	log.Info("resume extracted",
		zap.String(logger.FieldMethod, string(result.Method)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)))
	e.metrics.RecordExtraction(string(KindResume), string(result.Method), result.Confidence)
	return result
}

// ExtractJob extracts a job profile. It never fails: model errors degrade to the rule result.
func (e *Extractor) ExtractJob(ctx context.Context, text string, opts Options) types.JobExtraction {
	start := time.Now()
	log := e.log.With(zap.String("kind", string(KindJob)), zap.Int("length", len([]rune(text))))

	result := extractWith(ctx, e, log, KindJob, text, opts, e.jobByRules, e.jobByModel)

	log.Info("job extracted",
		zap.String(logger.FieldMethod, string(result.Method)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)))
	e.metrics.RecordExtraction(string(KindJob), string(result.Method), result.Confidence)
	return result
}

// extractWith implements the rule-first, model-fallback decision shared by both document kinds
func extractWith[T any](
	ctx context.Context,
	e *Extractor,
	log *zap.Logger,
	kind Kind,
	text string,
	opts Options,
	rules func(string) (T, scorecard),
	model func(context.Context, string) (T, error),
) types.ExtractionResult[T] {
	if opts.ForceLLM && opts.AllowLLM {
		fields, err := model(ctx, text)
		if err == nil {
			return types.ExtractionResult[T]{Fields: fields, Confidence: LLMConfidence, Method: types.MethodLLM}
		}
		log.Warn("forced model extraction failed, using rules", zap.Error(err))
		e.metrics.RecordExtractionFallback(string(kind))
	}

	fields, card := rules(text)
	confidence := card.confidence()
	ruleResult := types.ExtractionResult[T]{Fields: fields, Confidence: confidence, Method: types.MethodRule}
	log.Debug("rule extraction finished",
		zap.Float64("confidence", confidence),
		zap.Int("fields_found", card.found()),
		zap.Int("fields_tried", len(card)))

	if confidence >= e.threshold || !opts.AllowLLM || opts.ForceLLM {
		return ruleResult
	}

	log.Warn("rule confidence below threshold, calling model",
		zap.Float64("confidence", confidence),
		zap.Float64("threshold", e.threshold))
	modelFields, err := model(ctx, text)
	if err != nil {
		log.Warn("model extraction failed, using rule result", zap.Error(err))
		e.metrics.RecordExtractionFallback(string(kind))
		return ruleResult
	}
	return types.ExtractionResult[T]{Fields: modelFields, Confidence: LLMConfidence, Method: types.MethodLLM}
}

// ContentHash returns the hex SHA-256 of text, used as the idempotency key for stored extractions
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
