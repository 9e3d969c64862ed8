package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// whole-text fences: the body runs to the last ``` so backticks inside
	// string values survive
	wholeJSONFence  = regexp.MustCompile("(?s)^```json\\s*(.*)```$")
	wholePlainFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\s*(.*)```$")

	// fences surrounded by prose; the opening fence must end its line so
	// inline ```code``` spans are left alone
	jsonFence  = regexp.MustCompile("(?s)```json[ \\t]*\\r?\\n(.*?)\\s*```")
	plainFence = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n(.*?)\\s*```")
)

// StripCodeFences returns the body of a ```json fence, else of a plain ```
// fence, else the trimmed input. A fence spanning the whole text wins over
// the first fence found inside prose.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if m := wholeJSONFence.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := jsonFence.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	if m := wholePlainFence.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := plainFence.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	return t
}

// WrapInJSONFence is the inverse of StripCodeFences for a trimmed JSON string.
func WrapInJSONFence(s string) string {
	return "```json\n" + s + "\n```"
}

// ExtractJSONObject returns the first balanced {...} block in s that is valid
// JSON, so stray braces in leading prose are skipped. When no block parses the
// first balanced one is returned for the caller to report. Braces inside JSON
// strings are ignored. ok is false when no opening brace exists or no object
// closes.
func ExtractJSONObject(s string) (string, bool) {
	first := ""
	for start := strings.IndexByte(s, '{'); start != -1; {
		if obj, ok := balancedObject(s, start); ok {
			if json.Valid([]byte(obj)) {
				return obj, true
			}
			if first == "" {
				first = obj
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return first, first != ""
}

// balancedObject scans from the '{' at start to its matching '}'.
func balancedObject(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
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
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// CleanJSONObject strips fences and isolates the first JSON object. When no
// object can be isolated the fence-stripped text is returned so the caller's
// parser reports the failure against what the model actually said.
func CleanJSONObject(raw string) string {
	body := StripCodeFences(raw)
	if obj, ok := ExtractJSONObject(body); ok {
		return obj
	}
	return body
}
