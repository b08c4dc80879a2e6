// Package extract recovers structured JSON from free-form model output.
//
// Models asked for JSON routinely wrap it in prose or markdown fences, or emit
// slightly malformed objects. Every agent that needs a machine-readable reply
// goes through this package and supplies its own fallback when recovery fails:
// extraction never raises and never reaches the end user as an error.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Object recovers a JSON object from raw model output. The second return is
// false when no object could be recovered; callers then use their documented
// fallback value.
func Object(raw string) (map[string]any, bool) {
	var obj map[string]any
	if Into(raw, &obj) {
		return obj, true
	}
	return nil, false
}

// Into recovers a JSON object from raw model output and unmarshals it into v.
// Recovery order: strip code fences, parse directly, parse the widest {...}
// span, repair and re-parse that span. Returns false when all attempts fail.
func Into(raw string, v any) bool {
	stripped := StripFences(raw)
	if stripped == "" {
		return false
	}

	if json.Unmarshal([]byte(stripped), v) == nil {
		return true
	}

	// Greedy span: first '{' to last '}', across newlines. Multiple
	// JSON-looking spans collapse into the widest one.
	span, ok := widestObjectSpan(stripped)
	if !ok {
		return false
	}
	if json.Unmarshal([]byte(span), v) == nil {
		return true
	}

	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(repaired), v) == nil
}

// StripFences removes a leading markdown code fence (with optional language
// tag) and a trailing fence. Stripping is idempotent: applying it to already
// stripped text returns the text unchanged.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// Drop the language tag up to the first newline, e.g. "json".
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			first := strings.TrimSpace(s[:i])
			if isLanguageTag(first) {
				s = s[i+1:]
			}
		} else {
			s = strings.TrimSpace(s)
			if isLanguageTag(s) {
				return ""
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func widestObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
