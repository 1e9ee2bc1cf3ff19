// Package types provides type definitions for structured data used throughout the job-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeProfile represents a structured resume extracted from raw text.
// Optional scalar fields are pointers so that "not found" stays distinct from zero.
type ResumeProfile struct {
	Name            string `json:"name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Age             *int   `json:"age,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Location        string `json:"location,omitempty"`
	YearsExperience *int   `json:"years_experience,omitempty"`
	CurrentPosition string `json:"current_position,omitempty"`
	CurrentCompany  string `json:"current_company,omitempty"`

	Education  string `json:"education,omitempty"` // raw degree keyword, e.g. 本科
	University string `json:"university,omitempty"`
	Major      string `json:"major,omitempty"`

	Skills Skills `json:"skills,omitzero"`

	JobIntention       *JobIntention       `json:"job_intention,omitempty"`
	WorkExperiences    []WorkExperience    `json:"work_experiences,omitempty"`
	ProjectExperiences []ProjectExperience `json:"project_experiences,omitempty"`
	EducationList      []EducationEntry    `json:"education_list,omitempty"`
	Certifications     []Certification     `json:"certifications,omitempty"`
	Languages          []Language          `json:"languages,omitempty"`
	Awards             []Award             `json:"awards,omitempty"`
	Publications       []Publication       `json:"publications,omitempty"`
	SocialActivities   []SocialActivity    `json:"social_activities,omitempty"`
	SelfEvaluation     string              `json:"self_evaluation,omitempty"`
	Links              *Links              `json:"links,omitempty"`
}

// JobIntention captures what the candidate is looking for
type JobIntention struct {
	Positions  []string `json:"positions,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Cities     []string `json:"cities,omitempty"`
	SalaryMin  *int     `json:"salary_min,omitempty"` // thousands per month
	SalaryMax  *int     `json:"salary_max,omitempty"`
	JobType    string   `json:"job_type,omitempty"`
}

// WorkExperience is one dated block of employment history
type WorkExperience struct {
	Period           string   `json:"period,omitempty"`
	Company          string   `json:"company,omitempty"`
	Position         string   `json:"position,omitempty"`
	Department       string   `json:"department,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
}

// ProjectExperience is one project the candidate worked on
type ProjectExperience struct {
	Name             string   `json:"name"`
	Role             string   `json:"role,omitempty"`
	Company          string   `json:"company,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	TechStack        []string `json:"tech_stack,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
}

// EducationEntry is one school attended
type EducationEntry struct {
	School       string `json:"school,omitempty"`
	Major        string `json:"major,omitempty"`
	Degree       string `json:"degree,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	GPA          string `json:"gpa,omitempty"`
	Achievements string `json:"achievements,omitempty"`
}

// Certification is a professional certificate or exam result
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
}

// Language is a spoken language with a proficiency label
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Award is an honor or prize
type Award struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Publication is a paper, patent or book
type Publication struct {
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// SocialActivity is a club, volunteer or community role
type SocialActivity struct {
	Organization string `json:"organization"`
	Role         string `json:"role,omitempty"`
	Period       string `json:"period,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Links holds external profile URLs
type Links struct {
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Blog      string `json:"blog,omitempty"`
}

// IntentionPositions returns the target positions, or nil when no intention is set
func (r *ResumeProfile) IntentionPositions() []string {
	if r == nil || r.JobIntention == nil {
		return nil
	}
	return r.JobIntention.Positions
}
