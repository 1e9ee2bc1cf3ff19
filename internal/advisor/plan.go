package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/job-matcher/internal/feedback"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/schemas"
	"github.com/jonathan/job-matcher/internal/types"
)

// Search radii; the radius doubles as the strategy label of a search
const (
	RadiusConservative = "保守"
	RadiusModerate     = "适中"
	RadiusAggressive   = "激进"
)

const (
	maxReferences       = 3
	fallbackPathName    = "主路径"
	fallbackDescription = "基于简历推荐的职位"
	fallbackRationale   = "使用默认策略（模型不可用）"
	fallbackMaxYears    = 10
)

// Preferences are the candidate's own search constraints. Salaries are
// thousands per month.
type Preferences struct {
	Locations    []string `json:"locations,omitempty"`
	SalaryMin    *int     `json:"salary_min,omitempty"`
	SalaryMax    *int     `json:"salary_max,omitempty"`
	CompanyTypes []string `json:"company_types,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
}

// SearchPath is one line of search, lower Priority first
type SearchPath struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Priority      int      `json:"priority"`
	Keywords      []string `json:"keywords,omitempty"`
	JobTitles     []string `json:"job_titles,omitempty"`
	ExperienceMin *int     `json:"experience_min,omitempty"`
	ExperienceMax *int     `json:"experience_max,omitempty"`
	SalaryMin     *int     `json:"salary_min,omitempty"`
	SalaryMax     *int     `json:"salary_max,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	CompanyTypes  []string `json:"company_types,omitempty"`
}

// SearchPlan is a multi-path search strategy with the seven-dimension weights
// to rank its results by. Weights always sum to 1.
type SearchPlan struct {
	Paths     []SearchPath  `json:"search_paths"`
	Weights   types.Weights `json:"dimension_weights"`
	Radius    string        `json:"search_radius"`
	Rationale string        `json:"rationale,omitempty"`

	// References are the best past strategies the plan was informed by
	References []feedback.RankedStrategy `json:"references,omitempty"`

	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PlanInput is what a plan is made from. Weights are the candidate's current
// (feedback-optimized) weights; nil means types.DefaultWeights().
type PlanInput struct {
	Analysis    ResumeAnalysis
	Preferences Preferences
	Weights     types.Weights
	References  []feedback.RankedStrategy
}

type pathAnswer struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Priority      *int     `json:"priority"`
	Keywords      []string `json:"keywords"`
	JobTitles     []string `json:"job_titles"`
	ExperienceMin *float64 `json:"experience_min"`
	ExperienceMax *float64 `json:"experience_max"`
	SalaryMin     *float64 `json:"salary_min"`
	SalaryMax     *float64 `json:"salary_max"`
	Locations     []string `json:"locations"`
	CompanyTypes  []string `json:"company_types"`
}

type planAnswer struct {
	Paths     []pathAnswer       `json:"search_paths"`
	Weights   map[string]float64 `json:"dimension_weights"`
	Radius    string             `json:"search_radius"`
	Rationale string             `json:"rationale"`
}

// PlanSearch asks the model for a search plan. Paths come back ordered by
// priority and the weights are restricted to the seven reporting dimensions
// and renormalized; weights the model leaves out entirely are taken from the
// input. Without a usable answer the plan is RulePlan, flagged as a fallback.
func (a *Advisor) PlanSearch(ctx context.Context, in PlanInput) SearchPlan {
	if len(in.Weights) == 0 {
		in.Weights = types.DefaultWeights()
	}
	if len(in.References) > maxReferences {
		in.References = in.References[:maxReferences]
	}

	var answer planAnswer
	data, err := planData(in)
	if err == nil {
		err = a.ask(ctx, prompts.KeyPlanSearch, schemas.Plan, data, &answer)
	}
	if err == nil && len(answer.Paths) == 0 {
		err = fmt.Errorf("%s answer has no search paths", prompts.KeyPlanSearch)
	}
	if err != nil {
		a.fallback(KindPlan, err)
		plan := RulePlan(in)
		plan.Error = err.Error()
		return plan
	}

	plan := SearchPlan{
		Weights:    planWeights(answer.Weights, in.Weights),
		Radius:     radius(answer.Radius),
		Rationale:  strings.TrimSpace(answer.Rationale),
		References: in.References,
	}
	for i, p := range answer.Paths {
		path := SearchPath{
			Name:          strings.TrimSpace(p.Name),
			Description:   strings.TrimSpace(p.Description),
			Priority:      i + 1,
			Keywords:      clean(p.Keywords),
			JobTitles:     clean(p.JobTitles),
			ExperienceMin: roundInt(p.ExperienceMin),
			ExperienceMax: roundInt(p.ExperienceMax),
			SalaryMin:     roundInt(p.SalaryMin),
			SalaryMax:     roundInt(p.SalaryMax),
			Locations:     clean(p.Locations),
			CompanyTypes:  clean(p.CompanyTypes),
		}
		if p.Priority != nil && *p.Priority > 0 {
			path.Priority = *p.Priority
		}
		plan.Paths = append(plan.Paths, path)
	}
	slices.SortStableFunc(plan.Paths, func(x, y SearchPath) int { return x.Priority - y.Priority })

	a.log.Info("search plan finished",
		zap.Int("paths", len(plan.Paths)),
		zap.String("radius", plan.Radius))
	return plan
}

// RulePlan is the single-path plan built from the analysis and preferences
func RulePlan(in PlanInput) SearchPlan {
	weights := in.Weights
	if len(weights) == 0 {
		weights = types.DefaultWeights()
	}
	minYears, maxYears := 0, fallbackMaxYears

	path := SearchPath{
		Name:          fallbackPathName,
		Description:   fallbackDescription,
		Priority:      1,
		Keywords:      clean(in.Preferences.Keywords),
		JobTitles:     in.Analysis.RecommendedPositions,
		ExperienceMin: &minYears,
		ExperienceMax: &maxYears,
		SalaryMin:     in.Analysis.SalaryMin,
		SalaryMax:     in.Analysis.SalaryMax,
		Locations:     clean(in.Preferences.Locations),
		CompanyTypes:  clean(in.Preferences.CompanyTypes),
	}
	if in.Preferences.SalaryMin != nil || in.Preferences.SalaryMax != nil {
		path.SalaryMin, path.SalaryMax = in.Preferences.SalaryMin, in.Preferences.SalaryMax
	}

	return SearchPlan{
		Paths:      []SearchPath{path},
		Weights:    weights.Normalize(),
		Radius:     RadiusModerate,
		Rationale:  fallbackRationale,
		References: in.References,
		Fallback:   true,
	}
}

// planWeights keeps the reporting dimensions of the answer, fills the missing
// ones from fallback and renormalizes. An answer without any usable weight
// yields fallback.
func planWeights(answer map[string]float64, fallback types.Weights) types.Weights {
	out := make(types.Weights, len(types.ReportingDimensions))
	found := false
	for _, d := range types.ReportingDimensions {
		if v, ok := answer[string(d)]; ok && v >= 0 {
			out[d] = v
			found = true
			continue
		}
		out[d] = fallback[d]
	}
	if !found || out.Sum() <= 0 {
		return fallback.Normalize()
	}
	return out.Normalize()
}

func radius(r string) string {
	switch r = strings.TrimSpace(r); r {
	case RadiusConservative, RadiusModerate, RadiusAggressive:
		return r
	}
	return RadiusModerate
}

func planData(in PlanInput) (map[string]string, error) {
	analysis, err := json.MarshalIndent(in.Analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	prefs, err := json.MarshalIndent(in.Preferences, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode preferences: %w", err)
	}

	weights := make([]string, 0, len(in.Weights))
	for _, d := range in.Weights.Keys() {
		weights = append(weights, fmt.Sprintf("%s: %.2f", d, in.Weights[d]))
	}

	references := notProvided
	if len(in.References) > 0 {
		lines := make([]string, len(in.References))
		for i, r := range in.References {
			lines[i] = fmt.Sprintf("%d. %s（质量分 %.2f，参与率 %.0f%%，转化率 %.0f%%）",
				i+1, r.Strategy, r.Quality.Score, r.Quality.EngagementRate*100, r.Quality.ConversionRate*100)
		}
		references = strings.Join(lines, "\n")
	}

	return map[string]string{
		"Analysis":    string(analysis),
		"Preferences": string(prefs),
		"Weights":     strings.Join(weights, "\n"),
		"References":  references,
	}, nil
}
