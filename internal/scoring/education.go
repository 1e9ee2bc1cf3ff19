// Package scoring provides the independent dimension scorers used by the
// matcher: experience years, education level and vector similarity.
package scoring

import (
	"strings"

	"github.com/jonathan/job-matcher/internal/taxonomy"
	"github.com/jonathan/job-matcher/internal/types"
)

// Education scores
const (
	educationUnknownScore  = 50.0
	educationNoRequirement = 80.0
	educationGapPenalty    = 25.0
	educationFullScore     = 100.0
)

// degreeRank maps English degree words to levels for texts without a Chinese keyword
var degreeRank = []struct {
	word  string
	level types.EducationLevel
}{
	{"phd", types.EducationDoctorate},
	{"doctor", types.EducationDoctorate},
	{"master", types.EducationMaster},
	{"bachelor", types.EducationBachelor},
	{"associate", types.EducationAssociate},
	{"high school", types.EducationHighSchool},
}

// ParseEducationLevel returns the ordinal level of the first degree keyword
// found in text, scanning the education table in precedence order. nil tables
// use taxonomy.Default().
func ParseEducationLevel(tables *taxonomy.Tables, text string) types.EducationLevel {
	if text == "" {
		return types.EducationUnknown
	}
	if tables == nil {
		tables = taxonomy.Default()
	}
	for _, e := range tables.Education {
		if strings.Contains(text, e.Keyword) {
			return e.Level
		}
	}
	lower := strings.ToLower(text)
	for _, d := range degreeRank {
		if strings.Contains(lower, d.word) {
			return d.level
		}
	}
	return types.EducationUnknown
}

// ScoreEducation compares the resume degree with the job requirement, both
// read against tables. Meeting or exceeding the requirement scores 100; each
// missing level costs 25.
func ScoreEducation(tables *taxonomy.Tables, resumeEducation, requirement string) (float64, types.EducationDetail) {
	detail := types.EducationDetail{
		ResumeEducation:   resumeEducation,
		RequiredEducation: requirement,
	}

	if strings.TrimSpace(resumeEducation) == "" {
		detail.Score = educationUnknownScore
		detail.Reason = "resume has no education data"
		return detail.Score, detail
	}
	if strings.TrimSpace(requirement) == "" || strings.Contains(requirement, types.EducationUnlimited) ||
		strings.Contains(strings.ToLower(requirement), "unlimited") {
		detail.Score = educationNoRequirement
		detail.Reason = "job states no education requirement"
		return detail.Score, detail
	}

	resumeLevel := ParseEducationLevel(tables, resumeEducation)
	requiredLevel := ParseEducationLevel(tables, requirement)

	if resumeLevel >= requiredLevel {
		detail.Score = educationFullScore
		detail.Match = true
		return detail.Score, detail
	}

	gap := float64(requiredLevel - resumeLevel)
	detail.Score = max(0, educationFullScore-gap*educationGapPenalty)
	detail.Reason = resumeLevel.String() + " below required " + requiredLevel.String()
	return detail.Score, detail
}
