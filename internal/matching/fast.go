// Package matching scores resumes against jobs. FastMatch is a deterministic
// local computation; Matcher adds model-backed precise analysis, on-demand
// embeddings and batch ranking on top of it.
package matching

import (
	"strings"

	"github.com/jonathan/job-matcher/internal/direction"
	"github.com/jonathan/job-matcher/internal/scoring"
	"github.com/jonathan/job-matcher/internal/skills"
	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

// Fast match weights
const (
	positionWeight   = 0.30
	skillsWeight     = 0.25
	experienceWeight = 0.20
	educationWeight  = 0.15
	semanticWeight   = 0.10
)

const (
	// GateThreshold is the direction score below which the other dimensions are skipped
	GateThreshold = 30.0
	gatePenalty   = 0.5

	// ReasonDirectionMismatch is attached to gated scores
	ReasonDirectionMismatch = "direction mismatch"
)

// FastWeights returns the fixed fast-match weight vector
func FastWeights() types.Weights {
	return types.Weights{
		types.DimensionPosition:   positionWeight,
		types.DimensionSkills:     skillsWeight,
		types.DimensionExperience: experienceWeight,
		types.DimensionEducation:  educationWeight,
		types.DimensionSemantic:   semanticWeight,
	}
}

// Scorer runs the fast match against one set of taxonomy tables
type Scorer struct {
	tables     *taxonomy.Tables
	classifier *direction.Classifier
	normalizer *skills.Normalizer
}

// NewScorer creates a scorer; nil tables use taxonomy.Default()
func NewScorer(tables *taxonomy.Tables) *Scorer {
	return &Scorer{
		tables:     tables,
		classifier: direction.New(tables),
		normalizer: skills.NewNormalizer(tables),
	}
}

var defaultScorer = NewScorer(nil)

// FastMatch scores a resume against a job with the built-in tables
func FastMatch(resume *types.ResumeProfile, job *types.JobProfile, resumeVec, jobVec []float32) types.MatchScore {
	return defaultScorer.FastMatch(resume, job, resumeVec, jobVec)
}

// FastMatch computes the weighted position, skills, experience, education and
// semantic score. A direction score under GateThreshold short-circuits: the
// total becomes half the direction score and only the position dimension is
// reported.
func (s *Scorer) FastMatch(resume *types.ResumeProfile, job *types.JobProfile, resumeVec, jobVec []float32) types.MatchScore {
	if resume == nil {
		resume = &types.ResumeProfile{}
	}
	if job == nil {
		job = &types.JobProfile{}
	}

	dirScore, dirDetail := s.classifier.Score(directionTexts(resume), job.Title)
	if dirScore < GateThreshold {
		gated := dirScore * gatePenalty
		return types.MatchScore{
			TotalScore:      gated,
			DimensionScores: map[types.Dimension]float64{types.DimensionPosition: gated},
			Details:         types.MatchDetails{Position: &dirDetail},
			Weights:         types.Weights{types.DimensionPosition: 1},
			Reason:          ReasonDirectionMismatch,
		}
	}

	skillScore, skillDetail := s.normalizer.Match(resume.Skills.Flatten(), job.RequiredSkills, job.PreferredSkills)
	expScore, expDetail := scoring.ScoreExperience(resume.YearsExperience, job.ExperienceRequired)
	eduScore, eduDetail := scoring.ScoreEducation(s.tables, resume.Education, job.EducationRequired)
	semScore, semDetail := scoring.ScoreSemantic(resumeVec, jobVec)

	scores := map[types.Dimension]float64{
		types.DimensionPosition:   dirScore,
		types.DimensionSkills:     skillScore,
		types.DimensionExperience: expScore,
		types.DimensionEducation:  eduScore,
		types.DimensionSemantic:   semScore,
	}
	weights := FastWeights()

	return types.MatchScore{
		TotalScore:      weights.Apply(scores),
		DimensionScores: scores,
		Details: types.MatchDetails{
			Position:   &dirDetail,
			Skills:     &skillDetail,
			Experience: &expDetail,
			Education:  &eduDetail,
			Semantic:   &semDetail,
		},
		Weights: weights,
	}
}

// Gated reports whether a score was cut short by the direction gate
func Gated(score types.MatchScore) bool {
	return score.Reason == ReasonDirectionMismatch
}

// directionTexts is the current position followed by the intended positions
func directionTexts(resume *types.ResumeProfile) []string {
	var texts []string
	if p := strings.TrimSpace(resume.CurrentPosition); p != "" {
		texts = append(texts, p)
	}
	if resume.JobIntention != nil {
		for _, p := range resume.JobIntention.Positions {
			if p = strings.TrimSpace(p); p != "" {
				texts = append(texts, p)
			}
		}
	}
	return texts
}
