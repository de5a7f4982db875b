package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"windows line endings", "a\r\nb\rc", "a\nb\nc"},
		{"trims lines", "  a  \n  b  ", "a\nb"},
		{"collapses blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"nbsp", "a  b", "a b"},
		{"trims outer whitespace", "\n\n  hello  \n\n", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestStripHTML_BlockElements(t *testing.T) {
	fragment := `<div><h2>Requirements</h2><ul><li>Go</li><li>SQL</li></ul><p>Apply now.</p></div>`

	text := StripHTML(fragment)
	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "Go\n")
	assert.Contains(t, text, "SQL")
	assert.Contains(t, text, "Apply now.")
	// List items must land on separate lines, not run together.
	assert.NotContains(t, text, "GoSQL")
}

func TestStripHTML_BrBecomesNewline(t *testing.T) {
	text := StripHTML("line one<br>line two")
	assert.Equal(t, "line one\nline two", text)
}

func TestStripHTML_RemovesScripts(t *testing.T) {
	text := StripHTML(`<div>visible<script>var x = 1;</script></div>`)
	assert.Equal(t, "visible", text)
}
