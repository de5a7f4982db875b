// Package prompts holds the LLM prompt templates as embedded JSON files,
// one file per pipeline stage (extraction.json, rewrite.json, cover.json).
// Each file maps prompt keys to template strings with {{.Key}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.json
var templateFiles embed.FS

var (
	fileCache   = make(map[string]map[string]string)
	fileCacheMu sync.RWMutex
)

// placeholderRe matches {{.Key}} tokens in a template.
var placeholderRe = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9]*)\}\}`)

// Get returns the template stored under key in the named embedded file
// (e.g., "rewrite.json", "analyze-jd"). Unknown files and keys are errors.
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}

	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for prompts the program cannot run without. The files are
// embedded, so a failure here is a build defect and panics.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format substitutes data values into the template's {{.Key}} placeholders.
// Every placeholder named in the template must have a value in data; a
// missing value is an error rather than a silently unfilled prompt.
func Format(template string, data map[string]string) (string, error) {
	seen := make(map[string]bool)
	var missing []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		key := m[1]
		if _, ok := data[key]; !ok && !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("template placeholders without values: %s", strings.Join(missing, ", "))
	}

	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{{."+key+"}}", value)
	}
	return out, nil
}

// MustFormat is Format for the embedded templates, whose placeholder sets
// are fixed; a missing value is a build defect and panics.
func MustFormat(template string, data map[string]string) string {
	out, err := Format(template, data)
	if err != nil {
		panic(fmt.Sprintf("failed to format prompt: %v", err))
	}
	return out
}

func load(filename string) (map[string]string, error) {
	fileCacheMu.RLock()
	cached, ok := fileCache[filename]
	fileCacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := templateFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	fileCacheMu.Lock()
	fileCache[filename] = templates
	fileCacheMu.Unlock()

	return templates, nil
}

// ClearCache drops the parsed-file cache.
func ClearCache() {
	fileCacheMu.Lock()
	fileCache = make(map[string]map[string]string)
	fileCacheMu.Unlock()
}
