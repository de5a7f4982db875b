// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDetection outputs a human-readable summary of a detection result.
func (p *Printer) PrintDetection(result *types.DetectionResult, platform string) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", result.JobTitle))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", result.Company))
	sb.WriteString(fmt.Sprintf("Method:   %s\n", result.Method))
	if platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", platform))
	}
	sb.WriteString(fmt.Sprintf("JD:       %d chars", len(result.JD)))

	p.printBox("DETECTED JOB POSTING", sb.String())
}

// PrintMatch outputs the skill match summary: score, strongest matches, and
// the most important gaps.
func (p *Printer) PrintMatch(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", result.OverallScore))
	sb.WriteString(fmt.Sprintf("Summary:  %s\n", result.Summary))

	if len(result.MatchedSkills) > 0 {
		sb.WriteString("\nMatched:\n")
		count := min(len(result.MatchedSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := result.MatchedSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", m.Skill, m.Confidence))
		}
		if len(result.MatchedSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MatchedSkills)-maxItemsToShow))
		}
	}

	if len(result.MissingSkills) > 0 {
		sb.WriteString("\nMissing:\n")
		count := min(len(result.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := result.MissingSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s, %d mentions)\n", m.Skill, m.Priority, m.Mentions))
		}
		if len(result.MissingSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.MissingSkills)-maxItemsToShow))
		}
	}

	p.printBox("SKILL MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the keyword profile from the first rewrite pass.
func (p *Printer) PrintAnalysis(analysis *types.JDAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if analysis.YearsExperience != "" {
		sb.WriteString(fmt.Sprintf("Experience: %s\n", analysis.YearsExperience))
	}

	writeList := func(label string, items []string, limit int) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		count := min(len(items), limit)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > limit {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
		}
	}

	writeList("Must have", analysis.KeywordPriorities.MustHave, maxItemsToShow)
	writeList("Nice to have", analysis.KeywordPriorities.NiceToHave, 3)
	writeList("Industry terms", analysis.KeywordPriorities.IndustryTerms, 3)

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
