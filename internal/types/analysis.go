package types

// KeywordPriorities buckets job-description keywords by how strongly the
// posting demands them.
type KeywordPriorities struct {
	MustHave      []string `json:"must_have"`
	NiceToHave    []string `json:"nice_to_have"`
	IndustryTerms []string `json:"industry_terms"`
}

// JDAnalysis is the structured keyword profile produced by the first rewrite
// pass. It is created once per generation request and consumed once by the
// second pass.
type JDAnalysis struct {
	HardSkills            []string          `json:"hard_skills"`
	SoftSkills            []string          `json:"soft_skills"`
	ToolsTechnologies     []string          `json:"tools_technologies"`
	RoleExpectations      []string          `json:"role_expectations"`
	SeniorityIndicators   []string          `json:"seniority_indicators"`
	KeywordPriorities     KeywordPriorities `json:"keyword_priorities"`
	YearsExperience       string            `json:"years_experience"`
	EducationRequirements []string          `json:"education_requirements"`
}
