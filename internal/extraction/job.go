package extraction

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	requiredForFullCredit = 5
	maxResponsibilities   = 10
	minResponsibilityLen  = 5
	maxResponsibilityLen  = 200
	qualifierWindow       = 30
)

// mastery qualifiers that mark a skill mention as required
var requiredQualifiers = []string{"熟悉", "掌握", "精通", "熟练"}

// line markers that make every skill on the line a bonus
var preferredMarkers = []string{"优先", "加分"}

var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:职位名称|岗位名称|招聘职位)[：:]\s*([^\n]{2,50})`),
		regexp.MustCompile(`(?m)^([^\n]{2,30}(?:工程师|开发|经理|总监|架构师))`),
	}
	companyLabelPattern = regexp.MustCompile(`(?:公司名称|公司)[：:]\s*([^\n]{2,50})`)
	salaryKPattern      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k\s*[-~～到至]\s*(\d+(?:\.\d+)?)\s*k`)
	salaryUnitPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[-~～到至]\s*(\d+(?:\.\d+)?)\s*([万千])(\s*[/每]?\s*年)?`)
	experiencePatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*[-~～至到]\s*(\d+)\s*年`),
		regexp.MustCompile(`(\d+)\s*[年+]\s*(?:以上)?(?:工作)?经验`),
		regexp.MustCompile(`(\d+)\s*年以上`),
	}
	educationFloorPattern   = regexp.MustCompile(`(博士|硕士|研究生|本科|学士|专科|大专|高中)\s*(?:及|或)?以上`)
	responsibilitiesSection = regexp.MustCompile(`(?s)(?:岗位职责|工作内容|职位描述)[：:](.*?)(?:任职要求|岗位要求|技能要求|$)`)
)

// jobByRules runs every job field rule and returns the profile with its scorecard
func (e *Extractor) jobByRules(text string) (*types.JobProfile, scorecard) {
	profile := &types.JobProfile{}
	card := make(scorecard, 0, 9)

	if title, ok := firstSubmatch(text, titlePatterns...); ok {
		profile.Title = title
		card.add("title", scoreFound)
	} else {
		card.add("title", scoreMissing)
	}

	if company, ok := firstTableHit(text, e.tables.Companies); ok {
		profile.Company = company
		card.add("company", scoreFound)
	} else if company, ok := firstSubmatch(text, companyLabelPattern); ok {
		profile.Company = company
		card.add("company", 0.8)
	} else {
		card.add("company", scoreMissing)
	}

	if city, ok := firstTableHit(text, e.tables.Cities); ok {
		profile.City = city
		card.add("city", scoreFound)
	} else {
		card.add("city", 0.3)
	}

	if lo, hi, ok := extractSalary(text); ok {
		profile.SalaryMin = &lo
		profile.SalaryMax = &hi
		profile.SalaryRange = fmt.Sprintf("%dk-%dk", lo, hi)
		card.add("salary", scoreFound)
	} else {
		card.add("salary", 0.5)
	}

	if requirement, ok := extractExperienceRequirement(text); ok {
		profile.ExperienceRequired = requirement
		card.add("experience_required", scoreFound)
	} else {
		card.add("experience_required", 0.3)
	}

	if requirement, ok := e.educationRequirement(text); ok {
		profile.EducationRequired = requirement
		card.add("education_required", scoreFound)
	} else {
		card.add("education_required", 0.5)
	}

	required, preferred := e.classifySkills(strings.ToLower(text))
	profile.RequiredSkills = required
	profile.PreferredSkills = preferred
	if len(required) > 0 {
		card.add("required_skills", min(float64(len(required))/requiredForFullCredit, 1))
	} else {
		card.add("required_skills", 0.3)
	}

	if lines, sectionFound := extractResponsibilities(text); len(lines) > 0 {
		profile.Responsibilities = lines
		card.add("responsibilities", 0.9)
	} else if sectionFound {
		card.add("responsibilities", 0.3)
	} else {
		card.add("responsibilities", scoreMissing)
	}

	var benefits []string
	for _, benefit := range e.tables.Benefits {
		if strings.Contains(text, benefit) {
			benefits = append(benefits, benefit)
		}
	}
	if len(benefits) > 0 {
		profile.Benefits = benefits
		card.add("benefits", 0.8)
	} else {
		card.add("benefits", 0.5)
	}

	return profile, card
}

// extractSalary returns the monthly range in thousands. "NNk-NNk" is read as is,
// 千 ranges are thousands, 万 ranges are tens of thousands and yearly 万 ranges
// are spread over twelve months.
func extractSalary(text string) (int, int, bool) {
	if m := salaryKPattern.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil {
			return roundInt(lo), roundInt(hi), true
		}
	}
	if m := salaryUnitPattern.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo != nil || errHi != nil {
			return 0, 0, false
		}
		if m[3] == "万" {
			lo, hi = lo*10, hi*10
			if strings.TrimSpace(m[4]) != "" {
				lo, hi = lo/12, hi/12
			}
		}
		return roundInt(lo), roundInt(hi), true
	}
	return 0, 0, false
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// extractExperienceRequirement keeps the matched requirement text so the scorer can reparse it
func extractExperienceRequirement(text string) (string, bool) {
	for _, pattern := range experiencePatterns {
		if match := pattern.FindString(text); match != "" {
			return strings.TrimSpace(match), true
		}
	}
	if strings.Contains(text, "应届") || strings.Contains(text, "不限") {
		return types.ExperienceUnlimited, true
	}
	return "", false
}

// educationRequirement prefers an explicit "X及以上" floor, then the degree precedence order
func (e *Extractor) educationRequirement(text string) (string, bool) {
	if m := educationFloorPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	for _, kw := range e.tables.Education {
		if strings.Contains(text, kw.Keyword) {
			return kw.Keyword, true
		}
	}
	return "", false
}

// classifySkills splits table skills found in lowered text into required and preferred.
// A mention is required when a mastery qualifier precedes it on the same line and the
// line carries no bonus marker; a skill is required if any of its mentions is.
func (e *Extractor) classifySkills(lowered string) (required, preferred []string) {
	seen := make(map[string]bool)
	for _, skill := range e.tables.AllSkills() {
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true

		mentions := termIndexes(lowered, key)
		if len(mentions) == 0 {
			continue
		}
		isRequired := false
		for _, at := range mentions {
			if requiredMention(lowered, at) {
				isRequired = true
				break
			}
		}
		if isRequired {
			required = append(required, skill)
		} else {
			preferred = append(preferred, skill)
		}
	}
	return required, preferred
}

func requiredMention(lowered string, at int) bool {
	line, before := lineAround(lowered, at)
	for _, marker := range preferredMarkers {
		if strings.Contains(line, marker) {
			return false
		}
	}
	window := lastRunes(before, qualifierWindow)
	for _, qualifier := range requiredQualifiers {
		if strings.Contains(window, qualifier) {
			return true
		}
	}
	return false
}

// extractResponsibilities returns the first lines of the duties section within the length bounds
func extractResponsibilities(text string) ([]string, bool) {
	section := responsibilitiesSection.FindStringSubmatch(text)
	if section == nil {
		return nil, false
	}

	var lines []string
	for _, line := range strings.Split(section[1], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > maxResponsibilities {
		lines = lines[:maxResponsibilities]
	}

	var out []string
	for _, line := range lines {
		if n := runeLen(line); n > minResponsibilityLen && n < maxResponsibilityLen {
			out = append(out, line)
		}
	}
	return out, true
}
