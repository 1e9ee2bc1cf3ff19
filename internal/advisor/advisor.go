// Package advisor runs the model-backed career analyses: a structured review
// of one resume and a multi-path search plan for it. Both answer from rules
// when no model is configured or its answer is unusable, so callers always
// get a result.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/logger"
	"github.com/jonathan/job-matcher/internal/metrics"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/schemas"
)

// Fallback kinds reported to metrics
const (
	KindAnalysis = "analysis"
	KindPlan     = "plan"
)

// ErrNoModel is recorded on rule-based answers when no client is configured
var ErrNoModel = errors.New("no language model configured")

// Config wires an Advisor. Client is optional.
type Config struct {
	Client  llm.Client
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Advisor is safe for concurrent use
type Advisor struct {
	client  llm.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates an Advisor
func New(cfg Config) *Advisor {
	return &Advisor{
		client:  cfg.Client,
		log:     logger.OrNop(cfg.Logger).Named("advisor"),
		metrics: cfg.Metrics,
	}
}

// ask renders a prompt, calls the model and decodes the schema-checked answer into out
func (a *Advisor) ask(ctx context.Context, key string, schema schemas.Name, data map[string]string, out any) error {
	if a.client == nil {
		return ErrNoModel
	}
	prompt, err := prompts.Render(prompts.AdvisorFile, key, data)
	if err != nil {
		return fmt.Errorf("%s prompt: %w", key, err)
	}
	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	doc := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schema, []byte(doc)); err != nil {
		return fmt.Errorf("%s answer: %w", key, err)
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return &llm.ParseError{Message: key + " answer does not decode", Cause: err}
	}
	return nil
}

func (a *Advisor) fallback(kind string, cause error) {
	a.metrics.RecordAdvisorFallback(kind)
	a.log.Warn("model answer unavailable, using rules", zap.String("kind", kind), zap.Error(cause))
}

// roundInt converts an optional model number to an optional int
func roundInt(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}

// clean trims entries and drops blanks and duplicates
func clean(items []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
