// Package page provides a goquery-backed snapshot of a web page. It is the
// single point of DOM coupling: detection, extraction, and form filling all
// operate on a Page built from HTML, so they can be tested against synthetic
// fixtures without a browser.
package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page wraps a parsed HTML document.
type Page struct {
	url string
	doc *goquery.Document
}

// New parses HTML content into a Page. The url is informational and may be
// empty (e.g., for fixture-based tests).
func New(html string, url string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Message: "failed to parse HTML", Cause: err}
	}
	return &Page{url: url, doc: doc}, nil
}

// URL returns the page URL the snapshot was built from.
func (p *Page) URL() string {
	return p.url
}

// Title returns the document title, whitespace-trimmed.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// StructuredDataBlocks returns the raw contents of every JSON-LD script block
// in document order. Blocks are returned verbatim; callers are responsible
// for tolerating malformed JSON.
func (p *Page) StructuredDataBlocks() []string {
	var blocks []string
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks
}

// MetaProperty returns the content of a <meta property="..."> tag (OpenGraph
// style), or "" if absent.
func (p *Page) MetaProperty(property string) string {
	sel := p.doc.Find(`meta[property="` + property + `"]`).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// MetaName returns the content of a <meta name="..."> tag, or "" if absent.
func (p *Page) MetaName(name string) string {
	sel := p.doc.Find(`meta[name="` + name + `"]`).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// Find exposes a goquery selection for heuristic extractors.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// SelectText returns the normalized text of the first element matching the
// selector, or "" if none match.
func (p *Page) SelectText(selector string) string {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return NormalizeText(sel.Text())
}

// VisibleText returns the page's visible body text with scripts, styles, and
// common chrome removed. Callers can pass extra noise selectors, such as the
// platform-specific ones from the fetch package, to strip application forms
// and legal boilerplate as well.
func (p *Page) VisibleText(extraNoise ...string) string {
	// Clone so repeated calls against the same Page stay idempotent.
	doc := goquery.CloneDocument(p.doc)
	doc.Find("script, style, noscript, nav, footer, header, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	for _, selector := range extraNoise {
		if selector != "" {
			doc.Find(selector).Remove()
		}
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return NormalizeText(doc.Text())
	}
	return NormalizeText(body.Text())
}

// ParseError represents a failure to parse page HTML.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return "page parse error: " + e.Message + ": " + e.Cause.Error()
	}
	return "page parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
