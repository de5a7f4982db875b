package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when none of the extraction tiers could locate a
// parseable JSON object in a response.
var ErrNoJSON = fmt.Errorf("no JSON object found in response")

// DecodeJSONObject locates a JSON object inside an LLM response and
// unmarshals it into v. All call sites share the same three-tier tolerance:
//
//  1. the response is direct JSON
//  2. the response wraps JSON in a markdown code fence
//  3. the first brace-delimited object substring anywhere in the response
//
// Returns ErrNoJSON when no tier yields a parseable object.
func DecodeJSONObject(text string, v any) error {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// ExtractJSONObject returns the raw JSON object text found in a response, or
// ok=false when no tier located one.
func ExtractJSONObject(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	// Tier 1: direct JSON.
	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return text, true
	}

	// Tier 2: fenced code block.
	if unfenced := CleanJSONBlock(text); unfenced != text {
		if json.Valid([]byte(unfenced)) && strings.HasPrefix(unfenced, "{") {
			return unfenced, true
		}
		// Keep searching inside the unfenced text for tier 3.
		text = unfenced
	}

	// Tier 3: first brace-delimited object substring.
	if sub := braceSubstring(text); sub != "" && json.Valid([]byte(sub)) {
		return sub, true
	}

	return "", false
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// braceSubstring returns the first balanced brace-delimited substring,
// tracking string literals so braces inside values do not unbalance the
// scan. Falls back to first-{ .. last-} when the braces never balance.
func braceSubstring(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	if end := strings.LastIndexByte(text, '}'); end > start {
		return text[start : end+1]
	}
	return ""
}
