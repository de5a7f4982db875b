package types

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// SkillList is a flat list of skills. Resume files in the wild store skills
// either as a flat list or as a map of category name to list; both forms
// unmarshal into the flattened list, categories in document order.
type SkillList []string

// UnmarshalYAML accepts a sequence or a mapping of category to sequence.
func (s *SkillList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var flat []string
		if err := value.Decode(&flat); err != nil {
			return err
		}
		*s = flat
		return nil
	case yaml.MappingNode:
		var flat []string
		// Mapping nodes alternate key, value; values are skill lists.
		for i := 1; i < len(value.Content); i += 2 {
			var group []string
			if err := value.Content[i].Decode(&group); err != nil {
				return err
			}
			flat = append(flat, group...)
		}
		*s = flat
		return nil
	default:
		return fmt.Errorf("skills must be a list or a map of category to list")
	}
}

// UnmarshalJSON accepts the same two shapes as UnmarshalYAML.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		*s = flat
		return nil
	}
	var grouped map[string][]string
	if err := json.Unmarshal(data, &grouped); err != nil {
		return fmt.Errorf("skills must be a list or a map of category to list")
	}
	// Sort categories so the flattened order is deterministic.
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		out = append(out, grouped[k]...)
	}
	*s = out
	return nil
}

// Experience is a single role in the master resume. InternBullets is a
// secondary bullet block covering a distinct sub-period of the same role
// (e.g., an internship that converted to full-time).
type Experience struct {
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Company       string   `json:"company" yaml:"company" validate:"required"`
	Dates         string   `json:"dates" yaml:"dates" validate:"required"`
	Location      string   `json:"location,omitempty" yaml:"location,omitempty"`
	Technologies  []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Bullets       []string `json:"bullets" yaml:"bullets"`
	InternBullets []string `json:"intern_bullets,omitempty" yaml:"intern_bullets,omitempty"`
}

// Education is a single education entry in the master resume.
type Education struct {
	Degree      string `json:"degree" yaml:"degree"`
	Institution string `json:"institution" yaml:"institution"`
	Dates       string `json:"dates,omitempty" yaml:"dates,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	GPA         string `json:"gpa,omitempty" yaml:"gpa,omitempty"`
}

// Project is a personal or professional project entry.
type Project struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Link         string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// MasterResume is the user's canonical resume, loaded from storage at session
// start. The core treats it as read-only: the rewrite pipeline derives text
// from it but never mutates it.
type MasterResume struct {
	Name           string       `json:"name" yaml:"name" validate:"required"`
	Email          string       `json:"email" yaml:"email" validate:"required,email"`
	Phone          string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location       string       `json:"location,omitempty" yaml:"location,omitempty"`
	LinkedIn       string       `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GitHub         string       `json:"github,omitempty" yaml:"github,omitempty"`
	Portfolio      string       `json:"portfolio,omitempty" yaml:"portfolio,omitempty"`
	Summary        string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Experience     []Experience `json:"experience" yaml:"experience" validate:"dive"`
	Education      []Education  `json:"education" yaml:"education"`
	Skills         SkillList    `json:"skills" yaml:"skills"`
	Certifications []string     `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Projects       []Project    `json:"projects,omitempty" yaml:"projects,omitempty"`
}
