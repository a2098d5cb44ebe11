package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencePattern = regexp.MustCompile("```(?:json|JSON)?")
	fencedBlock  = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")
)

// ExtractJSON recovers the first JSON object or array embedded in model text.
// The body of a fenced code block wins over anything in the surrounding prose.
func ExtractJSON(text string) (string, error) {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		if candidate, ok := scanJSON(strings.TrimSpace(m[1])); ok {
			return candidate, nil
		}
	}

	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if candidate, ok := scanJSON(cleaned); ok {
		return candidate, nil
	}
	return "", ErrMalformedJSON
}

// scanJSON returns the first balanced object or array in s that is valid JSON.
func scanJSON(s string) (string, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		end := matchBracket(s, start)
		if end < 0 {
			continue
		}
		if candidate := s[start : end+1]; json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// matchBracket returns the index closing the bracket at start, or -1.
func matchBracket(s string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// DecodeJSON extracts JSON from text and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return nil
}
