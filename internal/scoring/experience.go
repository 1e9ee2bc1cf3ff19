package scoring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// Experience scores and per-year decay rates
const (
	experienceUnknownScore   = 50.0
	experienceNoRequirement  = 80.0
	experienceUnparsedScore  = 50.0
	experienceFullScore      = 100.0
	experienceMatchThreshold = 80.0

	shortfallPenalty  = 20.0
	excessPenaltyOpen = 5.0
	excessPenaltyMax  = 10.0
	excessFloor       = 70.0
	excessGrace       = 3
)

var numberPattern = regexp.MustCompile(`\d+`)

var unlimitedMarkers = []string{"不限", "应届", "unlimited", "new grad", "no experience"}

// ScoreExperience scores resume years against a requirement text of the form
// "N年以上" / "N+" (open ended) or "N-M年" (range).
//
// Open ended: 100 within N..N+3, then -5 per extra year down to 70; below N
// loses 20 per missing year. Range: 100 inside, -20 per year short, -10 per
// year over down to 70.
func ScoreExperience(resumeYears *int, requirement string) (float64, types.ExperienceDetail) {
	detail := types.ExperienceDetail{
		ResumeYears: resumeYears,
		Required:    requirement,
	}

	if resumeYears == nil {
		detail.Score = experienceUnknownScore
		detail.Reason = "resume has no years of experience"
		return detail.Score, detail
	}
	if strings.TrimSpace(requirement) == "" {
		detail.Score = experienceNoRequirement
		detail.Match = true
		detail.Reason = "job states no experience requirement"
		return detail.Score, detail
	}

	lower := strings.ToLower(requirement)
	for _, marker := range unlimitedMarkers {
		if strings.Contains(lower, marker) {
			detail.Score = experienceFullScore
			detail.Match = true
			return detail.Score, detail
		}
	}

	bounds, ok := requiredYears(requirement)
	if !ok {
		detail.Score = experienceUnparsedScore
		detail.Reason = "experience requirement not understood"
		return detail.Score, detail
	}

	years := *resumeYears
	minYears := bounds[0]

	var score float64
	if len(bounds) == 1 {
		switch {
		case years < minYears:
			score = max(0, 100-float64(minYears-years)*shortfallPenalty)
		case years <= minYears+excessGrace:
			score = experienceFullScore
		default:
			score = max(excessFloor, 100-float64(years-minYears-excessGrace)*excessPenaltyOpen)
		}
	} else {
		maxYears := bounds[1]
		switch {
		case years < minYears:
			score = max(0, 100-float64(minYears-years)*shortfallPenalty)
		case years <= maxYears:
			score = experienceFullScore
		default:
			score = max(excessFloor, 100-float64(years-maxYears)*excessPenaltyMax)
		}
	}

	detail.Score = score
	detail.Match = score >= experienceMatchThreshold
	return score, detail
}

// requiredYears returns the first one or two numbers of the requirement. A
// number that does not fit an int leaves the requirement not understood.
func requiredYears(requirement string) ([]int, bool) {
	numbers := numberPattern.FindAllString(requirement, 2)
	if len(numbers) == 0 {
		return nil, false
	}
	bounds := make([]int, len(numbers))
	for i, n := range numbers {
		v, err := strconv.Atoi(n)
		if err != nil {
			return nil, false
		}
		bounds[i] = v
	}
	return bounds, true
}
