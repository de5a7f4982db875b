package page

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRe      = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText converts raw extracted text to the canonical plain-text form
// used for job descriptions: line endings normalized, runs of spaces
// collapsed, no run of blank lines longer than one, and no leading or
// trailing whitespace.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = spaceRe.ReplaceAllString(line, " ")
		cleaned = append(cleaned, strings.TrimSpace(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLinesRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// StripHTML converts an HTML fragment to normalized plain text. Block-level
// elements become line breaks so list structure survives the conversion.
func StripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		// Fall back to a crude tag strip when parsing fails.
		return NormalizeText(tagRe.ReplaceAllString(fragment, " "))
	}
	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return NormalizeText(doc.Text())
}

var tagRe = regexp.MustCompile(`<[^>]*>`)
