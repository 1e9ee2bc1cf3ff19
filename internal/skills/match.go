package skills

import (
	"fmt"

	"github.com/jonathan/job-matcher/internal/types"
)

// Coverage score shares
const (
	requiredShare  = 80.0
	preferredShare = 20.0

	// NeutralScore is returned when the job lists no required skills
	NeutralScore = 50.0

	maxListedResumeSkills = 20
)

// Match computes skill coverage using the built-in alias table
func Match(resumeSkills, required, preferred []string) (float64, types.SkillDetail) {
	return defaultNormalizer.Match(resumeSkills, required, preferred)
}

// Match scores how many required and preferred job skills the resume covers.
// Required coverage contributes up to 80 points and preferred coverage up to 20.
// A resume without skills scores 0; a job without required skills scores 50.
func (n *Normalizer) Match(resumeSkills, required, preferred []string) (float64, types.SkillDetail) {
	detail := types.SkillDetail{
		RequiredTotalCount:  len(required),
		PreferredTotalCount: len(preferred),
		MatchedRequired:     []string{},
		MissingRequired:     []string{},
		MatchedPreferred:    []string{},
	}

	if len(resumeSkills) == 0 {
		detail.MissingRequired = append(detail.MissingRequired, required...)
		detail.Reason = "resume lists no skills"
		return 0, detail
	}
	if len(required) == 0 {
		detail.Score = NeutralScore
		detail.Reason = "job lists no required skills"
		return NeutralScore, detail
	}

	for _, skill := range required {
		if n.covered(resumeSkills, skill) {
			detail.MatchedRequired = append(detail.MatchedRequired, skill)
		} else {
			detail.MissingRequired = append(detail.MissingRequired, skill)
		}
	}
	for _, skill := range preferred {
		if n.covered(resumeSkills, skill) {
			detail.MatchedPreferred = append(detail.MatchedPreferred, skill)
		}
	}

	detail.RequiredMatchCount = len(detail.MatchedRequired)
	detail.PreferredMatchCount = len(detail.MatchedPreferred)

	score := ratio(detail.RequiredMatchCount, detail.RequiredTotalCount)*requiredShare +
		ratio(detail.PreferredMatchCount, detail.PreferredTotalCount)*preferredShare

	listed := resumeSkills
	if len(listed) > maxListedResumeSkills {
		listed = listed[:maxListedResumeSkills]
	}
	detail.ResumeSkills = append([]string(nil), listed...)
	detail.Score = score
	detail.Reason = fmt.Sprintf("matched %d/%d required, %d/%d preferred",
		detail.RequiredMatchCount, detail.RequiredTotalCount,
		detail.PreferredMatchCount, detail.PreferredTotalCount)
	return score, detail
}

// covered stops at the first resume skill that matches
func (n *Normalizer) covered(resumeSkills []string, jobSkill string) bool {
	for _, s := range resumeSkills {
		if n.Matches(s, jobSkill) {
			return true
		}
	}
	return false
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
