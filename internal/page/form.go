package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FormField describes a fillable input or textarea on the page, with enough
// identifying attributes for keyword matching and a selector the content
// script can use to address the element.
type FormField struct {
	// Selector addresses the element by id, name, or data-testid. Empty when
	// no stable attribute exists; Index is the fallback.
	Selector string `json:"selector,omitempty"`
	// Index is the element's document-order position among all input and
	// textarea elements, matching querySelectorAll("input, textarea").
	Index int `json:"index"`
	Tag         string `json:"tag"`
	Type        string `json:"type,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Class       string `json:"class,omitempty"`
	AriaLabel   string `json:"ariaLabel,omitempty"`
	DataTestID  string `json:"dataTestId,omitempty"`
	Label       string `json:"label,omitempty"`
	Value       string `json:"value,omitempty"`
}

// skippedInputTypes are input types that are never fill targets.
var skippedInputTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true, "image": true,
	"reset": true, "checkbox": true, "radio": true, "file": true,
	"password": true,
}

// FormFields scans the page for fillable input and textarea elements in
// document order, resolving associated label text via label[for] or a
// wrapping <label>.
func (p *Page) FormFields() []FormField {
	var fields []FormField

	p.doc.Find("input, textarea").Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		inputType, _ := s.Attr("type")
		inputType = strings.ToLower(inputType)
		if tag == "input" && skippedInputTypes[inputType] {
			return
		}
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		if _, readonly := s.Attr("readonly"); readonly {
			return
		}

		field := FormField{
			Index: i,
			Tag:   tag,
			Type:  inputType,
		}
		field.Name, _ = s.Attr("name")
		field.ID, _ = s.Attr("id")
		field.Placeholder, _ = s.Attr("placeholder")
		field.Class, _ = s.Attr("class")
		field.AriaLabel, _ = s.Attr("aria-label")
		field.DataTestID, _ = s.Attr("data-testid")
		field.Value, _ = s.Attr("value")
		if tag == "textarea" {
			field.Value = s.Text()
		}
		field.Label = p.labelFor(s, field.ID)
		field.Selector = fieldSelector(field)

		fields = append(fields, field)
	})

	return fields
}

// labelFor resolves the label text associated with a form element.
func (p *Page) labelFor(s *goquery.Selection, id string) string {
	if id != "" {
		if label := p.doc.Find(`label[for="` + id + `"]`).First(); label.Length() > 0 {
			return NormalizeText(label.Text())
		}
	}
	if wrapping := s.Closest("label"); wrapping.Length() > 0 {
		return NormalizeText(wrapping.Text())
	}
	return ""
}

// fieldSelector builds a stable CSS selector for addressing the element from
// the content script. ID wins, then name, then data-testid. Returns "" when
// no stable attribute exists; callers fall back to Index.
func fieldSelector(f FormField) string {
	if f.ID != "" {
		return "#" + f.ID
	}
	if f.Name != "" {
		return fmt.Sprintf(`%s[name="%s"]`, f.Tag, f.Name)
	}
	if f.DataTestID != "" {
		return fmt.Sprintf(`%s[data-testid="%s"]`, f.Tag, f.DataTestID)
	}
	return ""
}
