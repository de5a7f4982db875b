package detect

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-tailor/internal/page"
)

// extractMetaTags pulls the description from page meta tags, preferring
// OpenGraph, then Twitter Card, then the standard description meta.
func extractMetaTags(p *page.Page) candidate {
	description := p.MetaProperty("og:description")
	if description == "" {
		description = p.MetaName("twitter:description")
	}
	if description == "" {
		description = p.MetaName("description")
	}

	title := p.MetaProperty("og:title")
	if title == "" {
		title = p.MetaName("twitter:title")
	}

	return candidate{
		jd:      page.NormalizeText(description),
		title:   strings.TrimSpace(title),
		company: strings.TrimSpace(p.MetaProperty("og:site_name")),
	}
}

// titleSelectors are tried in order when a strategy left the job title blank.
var titleSelectors = []string{
	"h1.job-title",
	"h1[class*='job']",
	"h1[class*='title']",
	"[data-testid='job-title']",
	".posting-headline h2",
	".app-title",
	"h1",
}

// companySelectors are tried in order when a strategy left the company blank.
var companySelectors = []string{
	"[data-testid='company-name']",
	"[class*='company-name']",
	"[itemprop='hiringOrganization']",
	".posting-categories .company",
	".company",
	"[class*='employer']",
}

// maxHeuristicLength bounds heuristic title/company text; anything longer is
// a paragraph the selector accidentally hit, not a name.
const maxHeuristicLength = 120

// titleHeuristic resolves a job title from common title markup.
func titleHeuristic(p *page.Page) string {
	return firstSelectorText(p, titleSelectors)
}

// companyHeuristic resolves a company name from common employer markup.
func companyHeuristic(p *page.Page) string {
	return firstSelectorText(p, companySelectors)
}

func firstSelectorText(p *page.Page, selectors []string) string {
	for _, selector := range selectors {
		text := p.SelectText(selector)
		if text != "" && len(text) <= maxHeuristicLength {
			return firstLine(text)
		}
	}
	return ""
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

// pageTitleRe splits "TITLE at COMPANY" style document titles. The separator
// may be "at", "@", a dash variant, or a pipe.
var pageTitleRe = regexp.MustCompile(`^(.+?)\s+(?:at|@|-|–|—|\|)\s+(.+)$`)

// splitPageTitle infers title and company from the document title using the
// "TITLE (at|@|-|–|—||) COMPANY" pattern. Both results are trimmed; either
// may be empty when the pattern does not match.
func splitPageTitle(pageTitle string) (title string, company string) {
	m := pageTitleRe.FindStringSubmatch(strings.TrimSpace(pageTitle))
	if m == nil {
		return "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}
