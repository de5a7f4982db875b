// Package detect implements the multi-strategy job description detector: an
// ordered fallback chain over structured data, meta tags, and CSS-selector
// heuristics. Each strategy is paired with an explicit acceptance predicate
// so priority order and thresholds are independently testable.
package detect

import (
	"github.com/jonathan/job-tailor/internal/page"
	"github.com/jonathan/job-tailor/internal/schemaorg"
	"github.com/jonathan/job-tailor/internal/types"
)

// MinDescriptionLength is the acceptance threshold for the structured-data
// and meta-tag strategies. Shorter descriptions are treated as teasers and
// passed over in favor of the next strategy.
const MinDescriptionLength = 200

// candidate holds one strategy's extraction output before acceptance.
type candidate struct {
	jd      string
	title   string
	company string
}

// strategy pairs an extraction function with its acceptance predicate.
type strategy struct {
	method  types.DetectionMethod
	extract func(p *page.Page) candidate
	accept  func(c candidate) bool
}

// acceptLongDescription accepts a candidate whose description exceeds the
// minimum length threshold.
func acceptLongDescription(c candidate) bool {
	return len(c.jd) > MinDescriptionLength
}

// acceptAlways is the final-fallback predicate: the CSS strategy is accepted
// even when it produced nothing, so detection never fails outright.
func acceptAlways(candidate) bool {
	return true
}

// strategies is the fallback chain in strict priority order.
var strategies = []strategy{
	{method: types.MethodSchemaOrg, extract: extractSchemaOrg, accept: acceptLongDescription},
	{method: types.MethodMetaTags, extract: extractMetaTags, accept: acceptLongDescription},
	{method: types.MethodCSSSelectors, extract: extractCSS, accept: acceptAlways},
}

// Detect runs the fallback chain against a page and returns the first
// accepted result. The Method field records which strategy supplied the
// description; title and company left blank by that strategy are backfilled
// from page heuristics without changing Method. Detection never fails for a
// missing description: the worst case is a css_selectors result with an
// empty JD.
func Detect(p *page.Page) types.DetectionResult {
	for _, s := range strategies {
		c := s.extract(p)
		if !s.accept(c) {
			continue
		}
		fillFromHeuristics(p, &c)
		return types.DetectionResult{
			JD:       c.jd,
			JobTitle: c.title,
			Company:  c.company,
			Method:   s.method,
		}
	}
	// Unreachable while the last strategy accepts unconditionally.
	return types.DetectionResult{Method: types.MethodCSSSelectors}
}

// extractSchemaOrg adapts the structured-data extractor to the strategy shape.
func extractSchemaOrg(p *page.Page) candidate {
	record := schemaorg.Extract(p)
	if record == nil {
		return candidate{}
	}
	return candidate{
		jd:      record.Description,
		title:   record.Title,
		company: record.Company,
	}
}

// fillFromHeuristics backfills blank title/company fields from page
// heuristics and, as a last resort, the page title pattern.
func fillFromHeuristics(p *page.Page, c *candidate) {
	if c.title == "" {
		c.title = titleHeuristic(p)
	}
	if c.company == "" {
		c.company = companyHeuristic(p)
	}
	if c.title == "" || c.company == "" {
		title, company := splitPageTitle(p.Title())
		if c.title == "" {
			c.title = title
		}
		if c.company == "" {
			c.company = company
		}
	}
}
