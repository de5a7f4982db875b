package types

// Confidence labels how strongly a matched skill is demanded by the posting,
// derived from mention frequency rather than statistical probability.
type Confidence string

// Confidence constants for matched skills.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Priority labels the urgency of a skill gap.
type Priority string

// Priority constants for missing skills.
const (
	PriorityRequired   Priority = "required"
	PriorityPreferred  Priority = "preferred"
	PriorityNiceToHave Priority = "nice_to_have"
)

// MatchedSkill is a job skill found in the resume.
type MatchedSkill struct {
	Skill      string     `json:"skill"`
	Source     string     `json:"source"`
	Confidence Confidence `json:"confidence"`
}

// MissingSkill is a job skill absent from the resume.
type MissingSkill struct {
	Skill      string   `json:"skill"`
	Priority   Priority `json:"priority"`
	Mentions   int      `json:"mentions"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// MatchResult is the output of the skill matcher. It is ephemeral and
// recomputed whenever the job description or resume changes.
type MatchResult struct {
	OverallScore    int            `json:"overallScore"`
	MatchedSkills   []MatchedSkill `json:"matchedSkills"`
	MissingSkills   []MissingSkill `json:"missingSkills"`
	Recommendations []string       `json:"recommendations"`
	Summary         string         `json:"summary"`
}
