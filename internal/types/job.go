// Package types defines the shared data structures exchanged between
// detection, matching, and rewriting components.
package types

// DetectionMethod identifies which strategy supplied the final job description.
type DetectionMethod string

// Detection method constants, in fallback priority order.
const (
	// MethodSchemaOrg means the description came from JSON-LD JobPosting data
	MethodSchemaOrg DetectionMethod = "schema_org"
	// MethodMetaTags means the description came from OpenGraph/Twitter/standard meta tags
	MethodMetaTags DetectionMethod = "meta_tags"
	// MethodCSSSelectors means the description came from CSS-selector heuristics
	MethodCSSSelectors DetectionMethod = "css_selectors"
	// MethodLLM means the description came from LLM-assisted extraction
	MethodLLM DetectionMethod = "llm"
)

// Salary represents a salary range extracted from a job posting.
type Salary struct {
	Currency string  `json:"currency,omitempty"`
	MinValue float64 `json:"minValue,omitempty"`
	MaxValue float64 `json:"maxValue,omitempty"`
}

// JobRecord is a normalized job posting extraction result.
// Description is plain text: HTML-stripped, whitespace-normalized, with at
// most one consecutive blank line and no leading/trailing whitespace.
type JobRecord struct {
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Description        string   `json:"description"`
	Location           string   `json:"location,omitempty"`
	Salary             *Salary  `json:"salary,omitempty"`
	EmploymentType     []string `json:"employmentType,omitempty"`
	Requirements       []string `json:"requirements,omitempty"`
	Responsibilities   []string `json:"responsibilities,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	ExperienceRequired string   `json:"experienceRequired,omitempty"`
	EducationRequired  string   `json:"educationRequired,omitempty"`
	Remote             bool     `json:"remote,omitempty"`
}

// DetectionResult is the subset of a JobRecord needed downstream, plus the
// strategy that produced the description. Method reflects the primary
// description source even when title/company were backfilled by a later
// heuristic.
type DetectionResult struct {
	JD       string          `json:"jd"`
	JobTitle string          `json:"jobTitle"`
	Company  string          `json:"company"`
	Method   DetectionMethod `json:"method"`
}
