package rewrite

import "fmt"

// APICallError represents a provider failure during a pipeline pass.
type APICallError struct {
	Pass    string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: API call failed: %s: %v", e.Pass, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: API call failed: %s", e.Pass, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an unrecoverable failure to parse a pass's JSON
// output. Unlike the detection extractors, the rewrite pipeline has no
// fallback: a garbled analysis would corrupt the second pass, so parse
// failure aborts the whole generation request.
type ParseError struct {
	Pass    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Pass, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Pass, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
