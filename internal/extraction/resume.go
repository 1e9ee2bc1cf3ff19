package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	minAge              = 18
	maxAge              = 65
	skillsForFullCredit = 10
	fallbackKeywords    = 10
	maxSelfEvalRunes    = 500
	minSelfEvalRunes    = 10
)

var (
	labeledNamePattern = regexp.MustCompile(`姓\s*名[：:]\s*([^\s|｜,，;；]{2,10})`)
	phonePattern       = regexp.MustCompile(`(?:^|\D)(1[3-9]\d{9})(?:\D|$)`)
	emailPattern       = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	agePatterns        = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2})\s*岁`),
		regexp.MustCompile(`年龄[：:]\s*(\d{1,2})`),
	}
	yearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*[年+]\s*(?:以上)?(?:工作)?经验`),
		regexp.MustCompile(`(?:超过|拥有|具有)\s*(\d+)\s*年`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?`),
	}
	schoolPattern       = regexp.MustCompile(`([^\s]{2,10}(?:大学|学院|理工))`)
	majorPattern        = regexp.MustCompile(`(?:专业[：:]|主修)\s*([^\n]{2,20})`)
	intentionPattern    = regexp.MustCompile(`(?:求职意向|期望职位|意向岗位)[：:]\s*([^\n]{2,40})`)
	positionPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?:当前职位|现任)[：:]\s*([^\n]{2,30})`),
		regexp.MustCompile(`([^\s，,。：:、|｜]{0,12}(?:工程师|开发|架构师|经理|总监))`),
	}
	workSectionPattern = regexp.MustCompile(`(?s)(?:工作经[历验]|项目经[历验]|工作履历)[：:](.*?)(?:教育背景|技能|自我评价|$)`)
	workEntryPattern   = regexp.MustCompile(`(\d{4}[.\-/年]\d{1,2}[^\n]*?(?:\d{4}[.\-/年]\d{1,2}|至今|现在))\s*([^\n]{5,100})`)
	datePattern        = regexp.MustCompile(`\d{4}[.\-/年]\d{1,2}`)
	projectSection     = regexp.MustCompile(`(?s)项目经[历验][：:]?(.*?)(?:工作经[历验]|教育背景|技能|自我评价|获奖|证书|$)`)
	projectItemPattern = regexp.MustCompile(`(?m)^[ \t]*(?:项目名称[：:]|●|•|\d{1,2}[.、])[ \t]*([^\n]{2,50})`)
	selfEvalPattern    = regexp.MustCompile(`(?s)(?:自我评价|个人简介|个人总结)[：:]?\s*(.*?)(?:工作经[历验]|项目经[历验]|教育背景|技能|$)`)
	githubPattern      = regexp.MustCompile(`(?i)github\.com/([A-Za-z0-9_-]+)`)
	linkedinPattern    = regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_-]+)`)
	educationSection   = regexp.MustCompile(`(?s)(?:教育背景|教育经历|学历)[：:]?(.*?)(?:工作经[历验]|项目经[历验]|技能|自我评价|获奖|证书|$)`)
	educationEntry     = regexp.MustCompile(`(\d{4}(?:[.\-/年]\d{1,2})?)\s*[-~–—至到]\s*(\d{4}(?:[.\-/年]\d{1,2})?|至今|现在)?\s*([^\n]{2,30}?(?:大学|学院|University|College))([^\n]{0,30})`)
	languagePatterns   = []struct {
		language string
		pattern  *regexp.Regexp
	}{
		{"英语", regexp.MustCompile(`英语[：:]*\s*(流利|熟练|精通|一般|良好)`)},
		{"日语", regexp.MustCompile(`日语[：:]*\s*(流利|熟练|精通|一般|良好|N[1-5])`)},
		{"韩语", regexp.MustCompile(`韩语[：:]*\s*(流利|熟练|精通|一般|良好)`)},
	}
)

// resumeByRules runs every resume field rule and returns the profile with its scorecard
func (e *Extractor) resumeByRules(text string) (*types.ResumeProfile, scorecard) {
	profile := &types.ResumeProfile{}
	card := make(scorecard, 0, 14)
	lowered := strings.ToLower(text)

	if name, ok := extractName(text); ok {
		profile.Name = name
		card.add("name", scoreFound)
	} else {
		card.add("name", scoreMissing)
	}

	if m := phonePattern.FindStringSubmatch(text); m != nil {
		profile.Phone = m[1]
		card.add("phone", scoreFound)
	} else {
		card.add("phone", scoreMissing)
	}

	if email := emailPattern.FindString(text); email != "" {
		profile.Email = email
		card.add("email", scoreFound)
	} else {
		card.add("email", scoreMissing)
	}

	if age, ok := extractAge(text); ok {
		profile.Age = &age
		card.add("age", scoreFound)
	} else {
		card.add("age", 0.5)
	}

	if gender, ok := extractGender(text); ok {
		profile.Gender = gender
		card.add("gender", scoreFound)
	} else {
		card.add("gender", 0.5)
	}

	if years, ok := extractYears(text); ok {
		profile.YearsExperience = &years
		card.add("years_experience", scoreFound)
	} else {
		card.add("years_experience", 0.3)
	}

	if degree, ok := e.degreeKeyword(text); ok {
		profile.Education = degree
		card.add("education", scoreFound)
	} else {
		card.add("education", scoreMissing)
	}

	if school, ok := firstTableHit(text, e.tables.Universities); ok {
		profile.University = school
		card.add("university", scoreFound)
	} else if m := schoolPattern.FindStringSubmatch(text); m != nil {
		profile.University = m[1]
		card.add("university", 0.7)
	} else {
		card.add("university", scoreMissing)
	}

	if major, ok := firstSubmatch(text, majorPattern); ok {
		profile.Major = major
		card.add("major", 0.8)
	} else {
		card.add("major", 0.5)
	}

	skills, count := e.scanSkills(lowered)
	if count > 0 {
		profile.Skills = skills
		card.add("skills", min(float64(count)/skillsForFullCredit, 1))
	} else {
		profile.Skills = types.FlatSkills(topKeywords(text, fallbackKeywords)...)
		card.add("skills", 0.5)
	}

	if entries, sectionFound := e.extractWork(text); len(entries) > 0 {
		profile.WorkExperiences = entries
		card.add("work_experiences", 0.9)
	} else if sectionFound {
		card.add("work_experiences", 0.3)
	} else {
		card.add("work_experiences", scoreMissing)
	}

	if position, ok := firstSubmatch(text, positionPatterns...); ok {
		profile.CurrentPosition = position
		card.add("current_position", 0.8)
	} else {
		card.add("current_position", 0.5)
	}

	if company, ok := e.currentCompany(text, profile.WorkExperiences); ok {
		profile.CurrentCompany = company
		card.add("current_company", 0.8)
	} else {
		card.add("current_company", 0.5)
	}

	if projects := extractProjects(text); len(projects) > 0 {
		profile.ProjectExperiences = projects
		card.add("project_experiences", 0.8)
	} else {
		card.add("project_experiences", 0.5)
	}

	// fields below are extracted without contributing to confidence
	profile.Location, _ = earliestTableHit(text, e.tables.Cities)
	profile.JobIntention = extractIntention(text)
	profile.Certifications = e.extractCertifications(lowered)
	profile.Languages = extractLanguages(text)
	profile.SelfEvaluation = extractSelfEvaluation(text)
	profile.Links = extractLinks(text)
	profile.EducationList = e.extractEducationList(text, profile)

	return profile, card
}

// extractName reads a labeled name, else a short first line
func extractName(text string) (string, bool) {
	if m := labeledNamePattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := runeLen(line)
		if n >= 2 && n <= 4 && !strings.ContainsAny(line, "：:") {
			return line, true
		}
		return "", false
	}
	return "", false
}

func extractAge(text string) (int, bool) {
	for _, pattern := range agePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err == nil && age >= minAge && age <= maxAge {
			return age, true
		}
	}
	return 0, false
}

// extractGender only answers when exactly one of the two gender characters appears
func extractGender(text string) (string, bool) {
	male := strings.Contains(text, "男")
	female := strings.Contains(text, "女")
	switch {
	case male && !female:
		return "男", true
	case female && !male:
		return "女", true
	default:
		return "", false
	}
}

func extractYears(text string) (int, bool) {
	for _, pattern := range yearsPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if years, err := strconv.Atoi(m[1]); err == nil {
				return years, true
			}
		}
	}
	return 0, false
}

// degreeKeyword returns the highest-precedence degree keyword present, ignoring "unlimited"
func (e *Extractor) degreeKeyword(text string) (string, bool) {
	for _, kw := range e.tables.Education {
		if kw.Level == types.EducationUnknown {
			continue
		}
		if strings.Contains(text, kw.Keyword) {
			return kw.Keyword, true
		}
	}
	return "", false
}

// scanSkills finds table skills in lowered text, grouped by category in table order
func (e *Extractor) scanSkills(lowered string) (types.Skills, int) {
	categories := make(map[string][]string)
	count := 0
	seen := make(map[string]bool)
	for _, category := range e.tables.SkillCategories {
		for _, skill := range category.Skills {
			key := strings.ToLower(skill)
			if seen[key] || !containsTerm(lowered, key) {
				continue
			}
			seen[key] = true
			categories[category.Name] = append(categories[category.Name], skill)
			count++
		}
	}
	if count == 0 {
		return types.Skills{}, 0
	}
	return types.Skills{Categories: categories}, count
}

// extractWork parses dated entries of the work history section
func (e *Extractor) extractWork(text string) ([]types.WorkExperience, bool) {
	section := workSectionPattern.FindStringSubmatch(text)
	if section == nil {
		return nil, false
	}

	var entries []types.WorkExperience
	for _, m := range workEntryPattern.FindAllStringSubmatch(section[1], -1) {
		period := strings.TrimSpace(m[1])
		content := strings.TrimSpace(m[2])
		entry := types.WorkExperience{Period: period, Description: content}
		entry.StartDate, entry.EndDate = splitPeriod(period)
		entry.Company, _ = firstTableHit(content, e.tables.Companies)
		if pm := positionPatterns[1].FindStringSubmatch(content); pm != nil {
			entry.Position = pm[1]
		}
		entries = append(entries, entry)
	}
	return entries, true
}

// splitPeriod separates "2019.07-至今" into its start and end
func splitPeriod(period string) (string, string) {
	dates := datePattern.FindAllString(period, 2)
	start, end := "", ""
	if len(dates) > 0 {
		start = dates[0]
	}
	switch {
	case len(dates) > 1:
		end = dates[1]
	case strings.Contains(period, "至今"):
		end = "至今"
	case strings.Contains(period, "现在"):
		end = "现在"
	}
	return start, end
}

// currentCompany prefers the most recent work entry, then the company table
func (e *Extractor) currentCompany(text string, work []types.WorkExperience) (string, bool) {
	if len(work) > 0 && work[0].Company != "" {
		return work[0].Company, true
	}
	return firstTableHit(text, e.tables.Companies)
}

func extractProjects(text string) []types.ProjectExperience {
	section := projectSection.FindStringSubmatch(text)
	if section == nil {
		return nil
	}
	var projects []types.ProjectExperience
	for _, m := range projectItemPattern.FindAllStringSubmatch(section[1], -1) {
		name := strings.TrimSpace(m[1])
		if runeLen(name) > 2 {
			projects = append(projects, types.ProjectExperience{Name: name})
		}
	}
	return projects
}

func extractIntention(text string) *types.JobIntention {
	value, ok := firstSubmatch(text, intentionPattern)
	if !ok {
		return nil
	}
	positions := strings.FieldsFunc(value, func(r rune) bool {
		return r == '/' || r == '、' || r == ',' || r == '，' || r == '|' || r == '｜'
	})
	intention := &types.JobIntention{}
	for _, p := range positions {
		if p = strings.TrimSpace(p); p != "" {
			intention.Positions = append(intention.Positions, p)
		}
	}
	if len(intention.Positions) == 0 {
		return nil
	}
	return intention
}

func (e *Extractor) extractCertifications(lowered string) []types.Certification {
	var certs []types.Certification
	for _, name := range e.tables.Certifications {
		if containsTerm(lowered, name) {
			certs = append(certs, types.Certification{Name: name})
		}
	}
	return certs
}

func extractLanguages(text string) []types.Language {
	var languages []types.Language
	for _, lp := range languagePatterns {
		if m := lp.pattern.FindStringSubmatch(text); m != nil {
			languages = append(languages, types.Language{Language: lp.language, Proficiency: m[1]})
		}
	}
	if strings.Contains(text, "普通话") {
		languages = append(languages, types.Language{Language: "普通话", Proficiency: "母语"})
	}
	return languages
}

func extractSelfEvaluation(text string) string {
	m := selfEvalPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	evaluation := truncateRunes(strings.TrimSpace(m[1]), maxSelfEvalRunes)
	if runeLen(evaluation) <= minSelfEvalRunes {
		return ""
	}
	return evaluation
}

func extractLinks(text string) *types.Links {
	links := &types.Links{}
	if m := githubPattern.FindStringSubmatch(text); m != nil {
		links.GitHub = "https://github.com/" + m[1]
	}
	if m := linkedinPattern.FindStringSubmatch(text); m != nil {
		links.LinkedIn = "https://linkedin.com/in/" + m[1]
	}
	if links.GitHub == "" && links.LinkedIn == "" {
		return nil
	}
	return links
}

// extractEducationList parses dated school entries, falling back to the single school found earlier
func (e *Extractor) extractEducationList(text string, profile *types.ResumeProfile) []types.EducationEntry {
	var entries []types.EducationEntry
	if section := educationSection.FindStringSubmatch(text); section != nil {
		for _, m := range educationEntry.FindAllStringSubmatch(section[1], -1) {
			entry := types.EducationEntry{
				StartDate: strings.TrimSpace(m[1]),
				EndDate:   strings.TrimSpace(m[2]),
				School:    strings.TrimSpace(m[3]),
			}
			rest := m[4]
			if degree, ok := e.degreeKeyword(rest); ok {
				entry.Degree = degree
				rest = strings.Replace(rest, degree, "", 1)
			}
			entry.Major = strings.Trim(rest, " \t|｜/,，")
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 && profile.University != "" {
		entries = append(entries, types.EducationEntry{School: profile.University, Degree: profile.Education})
	}
	return entries
}

// earliestTableHit returns the table entry that occurs first in text
func earliestTableHit(text string, table []string) (string, bool) {
	best, bestAt := "", -1
	for _, entry := range table {
		if entry == "" {
			continue
		}
		if at := strings.Index(text, entry); at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = entry, at
		}
	}
	return best, bestAt >= 0
}
