//nolint:revive // types is a standard Go package name pattern
package types

// Sentinel requirement values produced by extraction when a posting states no constraint
const (
	ExperienceUnlimited = "应届/不限"
	EducationUnlimited  = "不限"
)

// JobProfile represents a structured job posting extracted from raw text
type JobProfile struct {
	Title              string   `json:"title,omitempty"`
	Company            string   `json:"company,omitempty"`
	City               string   `json:"city,omitempty"`
	SalaryRange        string   `json:"salary_range,omitempty"`
	SalaryMin          *int     `json:"salary_min,omitempty"`
	SalaryMax          *int     `json:"salary_max,omitempty"`
	ExperienceRequired string   `json:"experience_required,omitempty"` // "3年以上", "3-5年", or ExperienceUnlimited
	EducationRequired  string   `json:"education_required,omitempty"`  // degree keyword or EducationUnlimited
	RequiredSkills     []string `json:"required_skills,omitempty"`
	PreferredSkills    []string `json:"preferred_skills,omitempty"`
	Responsibilities   []string `json:"responsibilities,omitempty"`
	Benefits           []string `json:"benefits,omitempty"`
	CompanySize        string   `json:"company_size,omitempty"`
	CompanyIndustry    string   `json:"company_industry,omitempty"`
}
