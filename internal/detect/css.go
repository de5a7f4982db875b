package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/job-tailor/internal/page"
)

// curatedSelectors lists description containers for the major ATS platforms
// and job boards, tried in order. Site-family groupings are kept together so
// a platform's primary selector wins over its fallbacks.
var curatedSelectors = []string{
	// Greenhouse
	".job__description.body",
	".job__description",
	// Lever
	".posting-description",
	".section-wrapper.page-full-width",
	// Workday
	"[data-automation-id='jobDescription']",
	// Ashby
	"[class*='_descriptionText']",
	// LinkedIn
	".jobs-description-content__text",
	".description__text",
	// Indeed
	"#jobDescriptionText",
	// Generic
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
}

// descriptionKeywords mark a text block as job-description content during
// the longest-block scan.
var descriptionKeywords = []string{
	"responsibilities",
	"requirements",
	"qualifications",
	"experience",
}

// minKeywordBlockLength is the threshold for the longest-block fallback scan.
const minKeywordBlockLength = 500

// extractCSS is the final fallback strategy. It tries the curated selector
// list first, then scans content blocks for the longest keyword-bearing text,
// then settles for the longest text block of any kind. It may return an
// empty candidate; the detector accepts it regardless.
func extractCSS(p *page.Page) candidate {
	for _, selector := range curatedSelectors {
		text := p.SelectText(selector)
		if len(text) > MinDescriptionLength {
			return candidate{jd: text}
		}
	}

	if text := longestBlock(p, true); text != "" {
		return candidate{jd: text}
	}
	return candidate{jd: longestBlock(p, false)}
}

// longestBlock scans paragraph, div, and section elements under the main
// content region and returns the longest text block over the length
// threshold. When keywordFilter is set, only blocks mentioning at least one
// description keyword qualify.
func longestBlock(p *page.Page, keywordFilter bool) string {
	region := contentRegion(p)

	var best string
	region.Find("p, div, section").Each(func(_ int, s *goquery.Selection) {
		text := page.NormalizeText(s.Text())
		if len(text) <= minKeywordBlockLength || len(text) <= len(best) {
			return
		}
		if keywordFilter && !containsKeyword(text) {
			return
		}
		best = text
	})
	return best
}

// contentRegion returns the main content region of the page, falling back to
// body when no landmark matches.
func contentRegion(p *page.Page) *goquery.Selection {
	for _, selector := range []string{"main", "article", "#content", ".content"} {
		if sel := p.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return p.Find("body")
}

func containsKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range descriptionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
