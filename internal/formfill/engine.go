// Package formfill maps candidate-identity values onto arbitrary
// application-form fields by keyword heuristics. The engine only plans the
// writes; the content script executes them, invoking the native property
// setter before dispatching events so reactive frameworks on the host page
// observe the change.
package formfill

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-tailor/internal/page"
)

//go:embed data/fieldpatterns.json
var patternData []byte

// settleDelayMs is the pause between field writes, letting the host page's
// framework re-render before the next write.
const settleDelayMs = 100

// fillEvents are dispatched after each write, in order.
var fillEvents = []string{"input", "change", "keyup", "blur"}

// fieldOrder is the match priority. More specific keys come before keys
// whose patterns could shadow them (linkedin and github before portfolio,
// first/last name before full name).
var fieldOrder = []string{
	"first_name", "last_name", "full_name",
	"email", "phone",
	"linkedin", "github", "portfolio",
	"location", "cover_letter",
}

// typeOverrides short-circuits matching for inputs whose type attribute
// already identifies them.
var typeOverrides = map[string]string{
	"email": "email",
	"tel":   "phone",
}

// Profile holds the candidate-identity values available for filling.
type Profile struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	GitHub      string `json:"github,omitempty"`
	Portfolio   string `json:"portfolio,omitempty"`
	Location    string `json:"location,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// Action is one planned write. Selector addresses the element when a stable
// attribute exists; Index is the document-order fallback.
type Action struct {
	Selector      string   `json:"selector,omitempty"`
	Index         int      `json:"index"`
	FieldKey      string   `json:"fieldKey"`
	Value         string   `json:"value"`
	Events        []string `json:"events"`
	SettleDelayMs int      `json:"settleDelayMs"`
}

// Plan is the full set of writes for one page.
type Plan struct {
	Actions []Action `json:"actions"`
	Filled  int      `json:"filled"`
}

// Engine matches form fields against the embedded keyword pattern table.
type Engine struct {
	patterns map[string][]string
}

func NewEngine() (*Engine, error) {
	var patterns map[string][]string
	if err := json.Unmarshal(patternData, &patterns); err != nil {
		return nil, fmt.Errorf("failed to load field patterns: %w", err)
	}
	for _, key := range fieldOrder {
		if _, ok := patterns[key]; !ok {
			return nil, fmt.Errorf("field patterns missing key %q", key)
		}
	}
	return &Engine{patterns: patterns}, nil
}

// BuildPlan matches every fillable field against the pattern table and plans
// a write for each match the profile has a value for. Fields with existing
// non-whitespace content are never overwritten. A page with no matches
// yields an empty plan, not an error.
func (e *Engine) BuildPlan(fields []page.FormField, profile Profile) *Plan {
	plan := &Plan{Actions: []Action{}}
	values := profileValues(profile)

	for _, field := range fields {
		if strings.TrimSpace(field.Value) != "" {
			continue
		}
		key := e.matchField(field)
		if key == "" {
			continue
		}
		value := values[key]
		if value == "" {
			continue
		}
		plan.Actions = append(plan.Actions, Action{
			Selector:      field.Selector,
			Index:         field.Index,
			FieldKey:      key,
			Value:         value,
			Events:        fillEvents,
			SettleDelayMs: settleDelayMs,
		})
	}

	plan.Filled = len(plan.Actions)
	return plan
}

// matchField returns the first field key whose patterns match this element's
// identifier, or "". First match wins; cover_letter only applies to
// textareas so a letter never lands in a single-line input.
func (e *Engine) matchField(field page.FormField) string {
	if key, ok := typeOverrides[field.Type]; ok {
		return key
	}

	identifier := buildIdentifier(field)
	if identifier == "" {
		return ""
	}

	for _, key := range fieldOrder {
		if key == "cover_letter" && field.Tag != "textarea" {
			continue
		}
		for _, pattern := range e.patterns[key] {
			if strings.Contains(identifier, pattern) {
				return key
			}
		}
	}
	return ""
}

// buildIdentifier concatenates every identifying attribute plus the label
// text into one lowercase haystack for pattern matching.
func buildIdentifier(field page.FormField) string {
	parts := []string{
		field.Name, field.ID, field.Placeholder,
		field.AriaLabel, field.DataTestID, field.Class, field.Label,
	}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

func profileValues(p Profile) map[string]string {
	fullName := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return map[string]string{
		"first_name":   p.FirstName,
		"last_name":    p.LastName,
		"full_name":    fullName,
		"email":        p.Email,
		"phone":        p.Phone,
		"linkedin":     p.LinkedIn,
		"github":       p.GitHub,
		"portfolio":    p.Portfolio,
		"location":     p.Location,
		"cover_letter": p.CoverLetter,
	}
}
