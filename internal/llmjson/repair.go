// Package llmjson extracts and repairs the semi-structured JSON that LLM
// completions return. Models frequently wrap JSON in Markdown fences, leave
// trailing commas, or use single quotes; this package turns those near-miss
// payloads into parseable JSON without ever panicking or guessing content.
package llmjson

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceRe        = regexp.MustCompile("```(?:json)?\n?")
	trailingComma  = regexp.MustCompile(`,(\s*[}\]])`)
	unquotedKeyRe  = regexp.MustCompile(`(['"])?([a-zA-Z0-9_]+)(['"])?\s*:`)
	singleQuoteVal = regexp.MustCompile(`:\s*'([^']*)'`)
)

// StripCodeFences removes Markdown code-fence markers and trims whitespace.
func StripCodeFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ExtractObject returns the first top-level {...} block in the text, or ""
// when none exists. Brace depth is tracked so nested objects stay intact;
// braces inside string literals are ignored.
func ExtractObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

// Repair fixes the common near-miss JSON defects seen in model output:
// trailing commas, unquoted object keys, and single-quoted string values.
func Repair(jsonStr string) string {
	jsonStr = trailingComma.ReplaceAllString(jsonStr, "$1")
	jsonStr = unquotedKeyRe.ReplaceAllString(jsonStr, `"$2":`)
	jsonStr = singleQuoteVal.ReplaceAllString(jsonStr, `: "$1"`)
	return jsonStr
}

// Parse strips fences and attempts a direct JSON decode into v. It does not
// extract or repair; use RepairAndParse for the full tolerant path.
func Parse(text string, v any) error {
	return json.Unmarshal([]byte(StripCodeFences(text)), v)
}

// RepairAndParse runs the full tolerant pipeline: strip fences, extract the
// first top-level object, repair near-miss defects, decode into v. The
// returned bool reports success; callers pattern-match on it instead of
// catching errors, and degrade to their own fallback shape on false.
func RepairAndParse(text string, v any) bool {
	clean := StripCodeFences(text)

	if err := json.Unmarshal([]byte(clean), v); err == nil {
		return true
	}

	obj := ExtractObject(clean)
	if obj == "" {
		return false
	}
	if err := json.Unmarshal([]byte(obj), v); err == nil {
		return true
	}
	return json.Unmarshal([]byte(Repair(obj)), v) == nil
}
