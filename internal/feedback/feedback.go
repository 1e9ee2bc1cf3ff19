// Package feedback turns recorded candidate interactions into per-dimension
// preferences, an adjusted seven-dimension weight vector and recommendation
// quality figures.
package feedback

import (
	"math"
	"sort"

	"github.com/jonathan/job-matcher/internal/types"
)

// Weight adjustment rules
const (
	MinSamples  = 3
	HighAverage = 70.0
	LowAverage  = 40.0

	boostFactor = 1.2
	dampFactor  = 0.8
)

var rewards = map[types.FeedbackType]float64{
	types.FeedbackApply:   10,
	types.FeedbackLike:    5,
	types.FeedbackShare:   3,
	types.FeedbackView:    2,
	types.FeedbackDislike: -5,
}

// Reward is the learning signal of one interaction; unknown types are worth 0
func Reward(t types.FeedbackType) float64 {
	return rewards[t]
}

// DimensionStats summarizes the 0-100 scores of one dimension across feedback
type DimensionStats struct {
	Average float64 `json:"avg_score"`
	StdDev  float64 `json:"std_score"`
	Samples int     `json:"sample_count"`
}

// Stats collects per-dimension statistics for the given dimensions. Dimensions
// without any score are left out.
func Stats(records []types.Feedback, dims []types.Dimension) map[types.Dimension]DimensionStats {
	values := make(map[types.Dimension][]float64, len(dims))
	for _, r := range records {
		for _, d := range dims {
			if score, ok := r.DimensionScores[d]; ok {
				values[d] = append(values[d], score)
			}
		}
	}

	out := make(map[types.Dimension]DimensionStats, len(values))
	for d, scores := range values {
		mean := 0.0
		for _, s := range scores {
			mean += s
		}
		mean /= float64(len(scores))

		variance := 0.0
		for _, s := range scores {
			variance += (s - mean) * (s - mean)
		}
		variance /= float64(len(scores))

		out[d] = DimensionStats{Average: mean, StdDev: math.Sqrt(variance), Samples: len(scores)}
	}
	return out
}

// OptimizeWeights scales each default weight with at least MinSamples samples:
// up by 20% when its average is above HighAverage, down by 20% when below
// LowAverage. The result is renormalized to sum to 1. Nil defaults use
// types.DefaultWeights().
func OptimizeWeights(defaults types.Weights, stats map[types.Dimension]DimensionStats) types.Weights {
	if len(defaults) == 0 {
		defaults = types.DefaultWeights()
	}
	out := defaults.Clone()
	for _, d := range out.Keys() {
		s, ok := stats[d]
		if !ok || s.Samples < MinSamples {
			continue
		}
		switch {
		case s.Average > HighAverage:
			out[d] *= boostFactor
		case s.Average < LowAverage:
			out[d] *= dampFactor
		}
	}
	return out.Normalize()
}

// Summary counts interactions by type
type Summary struct {
	Total    int                        `json:"total"`
	Positive int                        `json:"positive"`
	Negative int                        `json:"negative"`
	Counts   map[types.FeedbackType]int `json:"counts,omitempty"`
	Reward   float64                    `json:"reward"`
}

// Analysis is the preference profile learned from one candidate's feedback
type Analysis struct {
	Preferred map[types.Dimension]DimensionStats `json:"preferred_dimensions"`
	Weights   types.Weights                      `json:"optimized_weights"`
	Summary   Summary                            `json:"feedback_summary"`
}

// Analyze summarizes records and derives optimized weights from them. Likes and
// applications count as positive, dislikes as negative.
func Analyze(records []types.Feedback, defaults types.Weights) Analysis {
	if len(defaults) == 0 {
		defaults = types.DefaultWeights()
	}

	summary := Summary{Total: len(records), Counts: make(map[types.FeedbackType]int)}
	for _, r := range records {
		summary.Counts[r.Type]++
		summary.Reward += Reward(r.Type)
	}
	summary.Positive = summary.Counts[types.FeedbackLike] + summary.Counts[types.FeedbackApply]
	summary.Negative = summary.Counts[types.FeedbackDislike]

	preferred := Stats(records, defaults.Keys())
	return Analysis{
		Preferred: preferred,
		Weights:   OptimizeWeights(defaults, preferred),
		Summary:   summary,
	}
}

// Quality measures how well one batch of recommendations was received
type Quality struct {
	Score          float64 `json:"quality_score"`
	EngagementRate float64 `json:"engagement_rate"`
	ConversionRate float64 `json:"conversion_rate"`
	AverageRating  float64 `json:"avg_rating"`
}

// Quality score shares
const (
	engagementShare = 0.30
	conversionShare = 0.50
	ratingShare     = 0.20
	maxRating       = 5.0
)

// RecommendationQuality scores the feedback on jobsReturned recommendations.
// Engagement is the share of distinct jobs interacted with, conversion the
// share of applications and the rating is the mean star rating (1-5). The
// score is on a 0-100 scale; rates above 1 are capped.
func RecommendationQuality(records []types.Feedback, jobsReturned int) Quality {
	if len(records) == 0 {
		return Quality{}
	}
	if jobsReturned <= 0 {
		jobsReturned = 1
	}

	engaged := make(map[string]struct{})
	applied := 0
	ratingSum, ratingCount := 0.0, 0
	for _, r := range records {
		engaged[r.JobID] = struct{}{}
		if r.Type == types.FeedbackApply {
			applied++
		}
		if r.Rating != nil {
			ratingSum += *r.Rating
			ratingCount++
		}
	}

	q := Quality{
		EngagementRate: math.Min(1, float64(len(engaged))/float64(jobsReturned)),
		ConversionRate: math.Min(1, float64(applied)/float64(jobsReturned)),
	}
	if ratingCount > 0 {
		q.AverageRating = ratingSum / float64(ratingCount)
	}
	q.Score = (q.EngagementRate*engagementShare +
		q.ConversionRate*conversionShare +
		q.AverageRating/maxRating*ratingShare) * 100
	return q
}

// SearchOutcome is one past search with the feedback it received
type SearchOutcome struct {
	SearchID     string           `json:"search_id"`
	Strategy     string           `json:"strategy"`
	JobsReturned int              `json:"jobs_returned"`
	Feedback     []types.Feedback `json:"feedback"`
}

// RankedStrategy is a search strategy with the quality it achieved
type RankedStrategy struct {
	SearchID string  `json:"search_id"`
	Strategy string  `json:"strategy"`
	Quality  Quality `json:"quality"`
}

// RankStrategies orders searches by recommendation quality, best first, and
// keeps the top limit (all when limit <= 0). Searches without a strategy are skipped.
func RankStrategies(outcomes []SearchOutcome, limit int) []RankedStrategy {
	ranked := make([]RankedStrategy, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Strategy == "" {
			continue
		}
		ranked = append(ranked, RankedStrategy{
			SearchID: o.SearchID,
			Strategy: o.Strategy,
			Quality:  RecommendationQuality(o.Feedback, o.JobsReturned),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quality.Score > ranked[j].Quality.Score })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
