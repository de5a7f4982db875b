// Package skills computes resume-to-job skill matches: it recognizes known
// skill terms in resume and job text, weights them by mention frequency, and
// produces a match score with gap analysis. The skill pattern and
// related-skills tables are data, not control flow: they live in embedded
// JSON files and can be extended without touching the matching logic.
package skills

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

//go:embed data/*.json
var dataFiles embed.FS

// pattern is one recognizable skill term with its precompiled matcher.
type pattern struct {
	name string
	re   *regexp.Regexp
}

// loadPatterns reads the skill pattern table and compiles a word-boundary
// matcher per term. Terms with punctuation (c++, node.js, ci/cd) are escaped,
// so the boundary check uses explicit non-word-character guards instead of \b.
func loadPatterns() ([]pattern, error) {
	data, err := dataFiles.ReadFile("data/patterns.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read skill patterns: %w", err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse skill patterns: %w", err)
	}

	patterns := make([]pattern, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		re, err := compileTerm(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", name, err)
		}
		patterns = append(patterns, pattern{name: name, re: re})
	}
	return patterns, nil
}

// compileTerm builds a case-insensitive matcher for a skill term bounded by
// token breaks (or string edges). The token alphabet includes + and # so
// "c" never matches inside "c++" or "c#", while "." stays a boundary so
// sentence-final mentions still count. The term is a capture group so
// scanning callers can resume after the term itself rather than after the
// consumed trailing boundary.
func compileTerm(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)(?:^|[^a-z0-9+#])(` + regexp.QuoteMeta(term) + `)(?:$|[^a-z0-9+#])`)
}

// loadRelated reads the related-skills table: missing skill to the resume
// skills considered transferable toward it.
func loadRelated() (map[string][]string, error) {
	data, err := dataFiles.ReadFile("data/related.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read related skills: %w", err)
	}

	var related map[string][]string
	if err := json.Unmarshal(data, &related); err != nil {
		return nil, fmt.Errorf("failed to parse related skills: %w", err)
	}

	normalized := make(map[string][]string, len(related))
	for skill, alternatives := range related {
		key := strings.ToLower(strings.TrimSpace(skill))
		var values []string
		for _, alt := range alternatives {
			if alt = strings.ToLower(strings.TrimSpace(alt)); alt != "" {
				values = append(values, alt)
			}
		}
		normalized[key] = values
	}
	return normalized, nil
}
