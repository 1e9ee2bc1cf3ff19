//nolint:revive // types is a standard Go package name pattern
package types

// Dimension names a scoring axis
type Dimension string

// Fast matcher dimensions
const (
	DimensionPosition   Dimension = "position"
	DimensionSkills     Dimension = "skills"
	DimensionExperience Dimension = "experience"
	DimensionEducation  Dimension = "education"
	DimensionSemantic   Dimension = "semantic"
)

// Reporting dimensions (used together with skills and experience)
const (
	DimensionSalary    Dimension = "salary"
	DimensionLocation  Dimension = "location"
	DimensionCulture   Dimension = "culture"
	DimensionGrowth    Dimension = "growth"
	DimensionStability Dimension = "stability"
)

// MatchScore is the scored comparison of one resume against one job.
// TotalScore equals the weighted sum of DimensionScores under Weights.
type MatchScore struct {
	TotalScore      float64               `json:"total_score"`
	DimensionScores map[Dimension]float64 `json:"dimension_scores"`
	Details         MatchDetails          `json:"details"`
	Weights         Weights               `json:"weights"`
	Reason          string                `json:"reason,omitempty"`
}

// MatchDetails explains each dimension score; nil entries were not computed
type MatchDetails struct {
	Position   *DirectionDetail  `json:"position,omitempty"`
	Skills     *SkillDetail      `json:"skills,omitempty"`
	Experience *ExperienceDetail `json:"experience,omitempty"`
	Education  *EducationDetail  `json:"education,omitempty"`
	Semantic   *SemanticDetail   `json:"semantic,omitempty"`
}

// DirectionDetail explains the position-direction score
type DirectionDetail struct {
	Score            float64  `json:"score"`
	Match            bool     `json:"match"`
	ResumePosition   string   `json:"resume_position,omitempty"`
	JobTitle         string   `json:"job_title,omitempty"`
	ResumeCategories []string `json:"resume_categories,omitempty"`
	JobCategories    []string `json:"job_categories,omitempty"`
	Matched          []string `json:"matched,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// SkillDetail explains the skill coverage score
type SkillDetail struct {
	Score               float64  `json:"score"`
	RequiredMatchCount  int      `json:"required_match_count"`
	RequiredTotalCount  int      `json:"required_total_count"`
	PreferredMatchCount int      `json:"preferred_match_count"`
	PreferredTotalCount int      `json:"preferred_total_count"`
	MatchedRequired     []string `json:"matched_required"`
	MissingRequired     []string `json:"missing_required"`
	MatchedPreferred    []string `json:"matched_preferred"`
	ResumeSkills        []string `json:"resume_skills,omitempty"`
	Reason              string   `json:"reason,omitempty"`
}

// ExperienceDetail explains the experience-years score
type ExperienceDetail struct {
	Score       float64 `json:"score"`
	ResumeYears *int    `json:"resume_years,omitempty"`
	Required    string  `json:"required,omitempty"`
	Match       bool    `json:"match"`
	Reason      string  `json:"reason,omitempty"`
}

// EducationDetail explains the education-level score
type EducationDetail struct {
	Score             float64 `json:"score"`
	ResumeEducation   string  `json:"resume_education,omitempty"`
	RequiredEducation string  `json:"required_education,omitempty"`
	Match             bool    `json:"match"`
	Reason            string  `json:"reason,omitempty"`
}

// Semantic score methods
const (
	SemanticEmbedding    = "embedding"
	SemanticNotAvailable = "not_available"
)

// SemanticDetail explains the vector similarity score
type SemanticDetail struct {
	Score  float64 `json:"score"`
	Method string  `json:"method"`
}

// PreciseAnalysis is the model verdict for a resume/job pair.
// When Fallback is set the verdict came from the fast matcher instead.
type PreciseAnalysis struct {
	OverallScore   float64               `json:"overall_score"`
	Dimensions     map[Dimension]float64 `json:"dimensions,omitempty"`
	Strengths      []string              `json:"strengths,omitempty"`
	Weaknesses     []string              `json:"weaknesses,omitempty"`
	Recommendation string                `json:"recommendation,omitempty"`
	Summary        string                `json:"summary,omitempty"`
	Fallback       bool                  `json:"fallback,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// PreciseResult bundles the precise match score, its analysis text and detail
type PreciseResult struct {
	Score    float64         `json:"score"`
	Analysis string          `json:"analysis"`
	Detail   PreciseAnalysis `json:"detail"`
	Fast     *MatchScore     `json:"fast,omitempty"`
}
