// Package llm - util.go pulls JSON payloads out of free-form model text.
package llm

import (
	"encoding/json"
	"strings"
)

func stripCodeFence(text string) string {
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

// extractBalanced scans from text[0] and stops at the matching closer, skipping
// delimiters that appear inside JSON strings.
func extractBalanced(text string, open, closer byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
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
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}

// Extraction is the outcome of pulling a JSON payload out of free-form model text.
// Exactly one of JSON and Err is set.
type Extraction struct {
	JSON string
	Err  error
}

// OK reports whether a payload was found.
func (e Extraction) OK() bool {
	return e.Err == nil
}

// Decode unmarshals the extracted payload into v.
func (e Extraction) Decode(v any) error {
	if e.Err != nil {
		return e.Err
	}
	if err := json.Unmarshal([]byte(e.JSON), v); err != nil {
		return &MalformedResponseError{Message: "extracted payload does not decode", Cause: err}
	}
	return nil
}

// ExtractObject finds the first balanced, syntactically valid {...} block in text.
func ExtractObject(text string) Extraction {
	return extractFirst(text, '{', '}', "no JSON object found in response")
}

// ArrayCandidates returns every top-level balanced, syntactically valid [...] block in text,
// in order of appearance. Callers validating against a schema can skip candidates that are
// only prose, such as "[7]" in "Here are [7] questions: [...]".
func ArrayCandidates(text string) []string {
	return extractAll(text, '[', ']')
}

func extractFirst(text string, open, closer byte, notFound string) Extraction {
	candidates := extractAll(text, open, closer)
	if len(candidates) == 0 {
		return Extraction{Err: &MalformedResponseError{Message: notFound}}
	}
	return Extraction{JSON: candidates[0]}
}

func extractAll(text string, open, closer byte) []string {
	text = stripCodeFence(strings.TrimSpace(text))
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		candidate := extractBalanced(text[i:], open, closer)
		if candidate == "" || !json.Valid([]byte(candidate)) {
			continue
		}
		out = append(out, candidate)
		i += len(candidate) - 1
	}
	return out
}
