// Package resume loads the user's master resume from storage and derives the
// plain-text form consumed by the rewrite pipeline. The master resume is
// read-only to the core: nothing here mutates it.
package resume

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-tailor/internal/types"
)

var validate = validator.New()

// Load reads and parses a master resume file. YAML is the canonical storage
// format; JSON parses too since YAML is a superset.
func Load(path string) (*types.MasterResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resume file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals resume content and validates the required shape.
func Parse(data []byte) (*types.MasterResume, error) {
	var r types.MasterResume
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid resume: %w", err)
	}
	if len(r.Experience) == 0 {
		return nil, fmt.Errorf("invalid resume: at least one experience entry is required")
	}
	return &r, nil
}

// Flatten renders the resume as structured plain text for LLM input:
// name/contact block, summary, chronological experience with bullets,
// education, skills, certifications, and projects.
func Flatten(r *types.MasterResume) string {
	var sb strings.Builder

	sb.WriteString(r.Name + "\n")
	sb.WriteString(contactLine(r) + "\n")

	if r.Summary != "" {
		sb.WriteString("\nSUMMARY\n")
		sb.WriteString(r.Summary + "\n")
	}

	sb.WriteString("\nEXPERIENCE\n")
	for _, exp := range r.Experience {
		sb.WriteString(fmt.Sprintf("\n%s | %s | %s", exp.Title, exp.Company, exp.Dates))
		if exp.Location != "" {
			sb.WriteString(" | " + exp.Location)
		}
		sb.WriteString("\n")
		if len(exp.Technologies) > 0 {
			sb.WriteString("Technologies: " + strings.Join(exp.Technologies, ", ") + "\n")
		}
		for _, bullet := range exp.Bullets {
			sb.WriteString("- " + bullet + "\n")
		}
		if len(exp.InternBullets) > 0 {
			sb.WriteString("Earlier period in the same role:\n")
			for _, bullet := range exp.InternBullets {
				sb.WriteString("- " + bullet + "\n")
			}
		}
	}

	if len(r.Education) > 0 {
		sb.WriteString("\nEDUCATION\n")
		for _, edu := range r.Education {
			line := edu.Degree
			if edu.Institution != "" {
				line += " | " + edu.Institution
			}
			if edu.Dates != "" {
				line += " | " + edu.Dates
			}
			if edu.GPA != "" {
				line += " | GPA: " + edu.GPA
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(r.Skills) > 0 {
		sb.WriteString("\nSKILLS\n")
		sb.WriteString(strings.Join([]string(r.Skills), ", ") + "\n")
	}

	if len(r.Certifications) > 0 {
		sb.WriteString("\nCERTIFICATIONS\n")
		for _, cert := range r.Certifications {
			sb.WriteString("- " + cert + "\n")
		}
	}

	if len(r.Projects) > 0 {
		sb.WriteString("\nPROJECTS\n")
		for _, project := range r.Projects {
			sb.WriteString("\n" + project.Name)
			if len(project.Technologies) > 0 {
				sb.WriteString(" (" + strings.Join(project.Technologies, ", ") + ")")
			}
			sb.WriteString("\n")
			if project.Description != "" {
				sb.WriteString(project.Description + "\n")
			}
			if project.Link != "" {
				sb.WriteString(project.Link + "\n")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// contactLine joins whichever contact fields are present.
func contactLine(r *types.MasterResume) string {
	parts := []string{r.Email}
	for _, v := range []string{r.Phone, r.Location, r.LinkedIn, r.GitHub, r.Portfolio} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}
