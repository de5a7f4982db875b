package skills

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// requirementBoost is added to a skill's mention count when it appears in
	// a sentence introduced by explicit requirement language.
	requirementBoost = 3
	// mentionWeightCap caps any single skill's influence on the score.
	mentionWeightCap = 5
	// maxMissingSkills caps the reported gap list.
	maxMissingSkills = 10
	// maxNamedSkills caps how many skills a recommendation names.
	maxNamedSkills = 3
	// minSubstringLength guards the permissive substring match: tokens
	// shorter than this only match exactly, so "r" never matches "react".
	minSubstringLength = 3
)

// requirementRe flags sentences that introduce hard requirements.
var requirementRe = regexp.MustCompile(`(?i)\b(required|must have|essential|mandatory)\b`)

// sentenceSplitRe splits job text into sentences for requirement detection.
var sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)

// resumeSkill tracks where in the resume a skill was found.
type resumeSkill struct {
	name   string
	source string
}

// JobSkill is one skill recognized in job text with its weighted mention
// count (raw word-boundary count plus the requirement boost).
type JobSkill struct {
	Name     string
	Mentions int
}

// Matcher recognizes skill terms using the embedded pattern tables.
type Matcher struct {
	patterns []pattern
	related  map[string][]string
}

// NewMatcher loads the embedded skill tables.
func NewMatcher() (*Matcher, error) {
	patterns, err := loadPatterns()
	if err != nil {
		return nil, err
	}
	related, err := loadRelated()
	if err != nil {
		return nil, err
	}
	return &Matcher{patterns: patterns, related: related}, nil
}

// Match scores a resume against job description text. The result is
// ephemeral: recompute whenever either input changes.
func (m *Matcher) Match(r *types.MasterResume, jobText string) *types.MatchResult {
	resumeSkills := m.resumeSkills(r)
	jobSkills := m.JobSkills(jobText)

	result := &types.MatchResult{
		MatchedSkills:   []types.MatchedSkill{},
		MissingSkills:   []types.MissingSkill{},
		Recommendations: []string{},
	}

	if len(jobSkills) == 0 {
		result.Summary = summaryFor(0, 0, 0)
		return result
	}

	var matchedWeight, totalWeight int
	for _, js := range jobSkills {
		weight := js.Mentions
		if weight > mentionWeightCap {
			weight = mentionWeightCap
		}
		totalWeight += weight

		if source, ok := matchAgainstResume(js.Name, resumeSkills); ok {
			matchedWeight += weight
			result.MatchedSkills = append(result.MatchedSkills, types.MatchedSkill{
				Skill:      js.Name,
				Source:     source,
				Confidence: confidenceFor(js.Mentions),
			})
			continue
		}

		result.MissingSkills = append(result.MissingSkills, types.MissingSkill{
			Skill:      js.Name,
			Priority:   priorityFor(js.Mentions),
			Mentions:   js.Mentions,
			Suggestion: m.suggestionFor(js.Name, resumeSkills),
		})
	}

	// jobSkills is already sorted by mentions descending, so the gap list is
	// the ten highest-mention gaps after the cap.
	if len(result.MissingSkills) > maxMissingSkills {
		result.MissingSkills = result.MissingSkills[:maxMissingSkills]
	}

	result.OverallScore = int(math.Round(100 * float64(matchedWeight) / float64(totalWeight)))
	result.Recommendations = m.recommendations(result)
	result.Summary = summaryFor(result.OverallScore, len(result.MatchedSkills), len(jobSkills))
	return result
}

// resumeSkills unions the explicit skills list with skills recognized inside
// experience bullets and project descriptions. Names are lowercased and
// de-duplicated; the first source seen wins.
func (m *Matcher) resumeSkills(r *types.MasterResume) []resumeSkill {
	var out []resumeSkill
	seen := make(map[string]bool)
	add := func(name, source string) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, resumeSkill{name: name, source: source})
	}

	for _, skill := range r.Skills {
		add(skill, "skills_section")
	}

	var bullets strings.Builder
	for _, exp := range r.Experience {
		for _, b := range exp.Bullets {
			bullets.WriteString(b + "\n")
		}
		for _, b := range exp.InternBullets {
			bullets.WriteString(b + "\n")
		}
	}
	for _, p := range m.recognize(bullets.String()) {
		add(p, "experience")
	}

	var projects strings.Builder
	for _, project := range r.Projects {
		projects.WriteString(project.Description + "\n")
	}
	for _, p := range m.recognize(projects.String()) {
		add(p, "projects")
	}

	return out
}

// JobSkills recognizes skills in job text with mention counts, boosted for
// requirement-language sentences, sorted by mentions descending. Ties keep
// recognition order.
func (m *Matcher) JobSkills(jobText string) []JobSkill {
	counts := make(map[string]int)
	var order []string

	for _, p := range m.patterns {
		n := countMentions(p.re, jobText)
		if n == 0 {
			continue
		}
		counts[p.name] = n
		order = append(order, p.name)
	}

	// Requirement-language boost: any recognized skill inside a sentence
	// flagged as a requirement gains +3 mentions on top of its raw count.
	for _, sentence := range sentenceSplitRe.Split(jobText, -1) {
		if !requirementRe.MatchString(sentence) {
			continue
		}
		for _, p := range m.patterns {
			if _, ok := counts[p.name]; !ok {
				continue
			}
			if p.re.MatchString(sentence) {
				counts[p.name] += requirementBoost
			}
		}
	}

	out := make([]JobSkill, 0, len(order))
	for _, name := range order {
		out = append(out, JobSkill{Name: name, Mentions: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Mentions > out[j].Mentions
	})
	return out
}

// countMentions counts occurrences of a compiled skill term. The pattern's
// boundary guards consume the surrounding byte, so a plain FindAll misses
// back-to-back mentions like "go, go"; this scan resumes from the end of
// the captured term instead.
func countMentions(re *regexp.Regexp, text string) int {
	count := 0
	for offset := 0; offset < len(text); {
		loc := re.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		count++
		offset += loc[3]
	}
	return count
}

// recognize returns the distinct skill terms present in text, in pattern
// table order.
func (m *Matcher) recognize(text string) []string {
	var out []string
	for _, p := range m.patterns {
		if p.re.MatchString(text) {
			out = append(out, p.name)
		}
	}
	return out
}

// matchAgainstResume reports whether a job skill is covered by the resume,
// either exactly or via bidirectional substring containment. The substring
// branch is intentionally permissive so compound terms match ("react" covers
// "react.js"), guarded by a minimum token length so single letters do not.
func matchAgainstResume(jobSkill string, resumeSkills []resumeSkill) (string, bool) {
	for _, rs := range resumeSkills {
		if rs.name == jobSkill {
			return rs.source, true
		}
		if len(rs.name) >= minSubstringLength && strings.Contains(jobSkill, rs.name) {
			return rs.source, true
		}
		if len(jobSkill) >= minSubstringLength && strings.Contains(rs.name, jobSkill) {
			return rs.source, true
		}
	}
	return "", false
}

// suggestionFor looks up the related-skills table for a transferable resume
// skill that softens the gap.
func (m *Matcher) suggestionFor(missing string, resumeSkills []resumeSkill) string {
	for _, alternative := range m.related[missing] {
		for _, rs := range resumeSkills {
			if rs.name == alternative {
				return fmt.Sprintf("Highlight your %s experience as transferable to %s", alternative, missing)
			}
		}
	}
	return ""
}

// confidenceFor maps mention frequency to a confidence label.
func confidenceFor(mentions int) types.Confidence {
	switch {
	case mentions >= 3:
		return types.ConfidenceHigh
	case mentions >= 2:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// priorityFor maps mention frequency to a gap priority label.
func priorityFor(mentions int) types.Priority {
	switch {
	case mentions >= 3:
		return types.PriorityRequired
	case mentions >= 2:
		return types.PriorityPreferred
	default:
		return types.PriorityNiceToHave
	}
}

// recommendations emits at most two entries: one naming the leading required
// gaps, one naming the strongest matches to emphasize.
func (m *Matcher) recommendations(result *types.MatchResult) []string {
	recs := []string{}

	var requiredGaps []string
	for _, missing := range result.MissingSkills {
		if missing.Priority == types.PriorityRequired {
			requiredGaps = append(requiredGaps, missing.Skill)
		}
		if len(requiredGaps) == maxNamedSkills {
			break
		}
	}
	if len(requiredGaps) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Address required skills missing from your resume: %s", strings.Join(requiredGaps, ", ")))
	}

	var strongMatches []string
	for _, matched := range result.MatchedSkills {
		if matched.Confidence == types.ConfidenceHigh {
			strongMatches = append(strongMatches, matched.Skill)
		}
		if len(strongMatches) == maxNamedSkills {
			break
		}
	}
	if len(strongMatches) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Emphasize your strongest matches prominently: %s", strings.Join(strongMatches, ", ")))
	}

	return recs
}

// summaryFor renders the summary line. The four band phrases and their
// boundaries are a UI contract: styling keys off the leading phrase.
func summaryFor(score, matched, total int) string {
	var band string
	switch {
	case score >= 80:
		band = "Excellent match"
	case score >= 60:
		band = "Good match"
	case score >= 40:
		band = "Moderate match"
	default:
		band = "Lower match"
	}
	if total == 0 {
		return fmt.Sprintf("%s: no recognizable skills found in the job description", band)
	}
	return fmt.Sprintf("%s: your resume covers %d of %d skills named in the job description", band, matched, total)
}
