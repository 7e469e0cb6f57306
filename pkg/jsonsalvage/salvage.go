// Package jsonsalvage extracts the first parseable JSON object or array out
// of noisy LLM text (markdown fences, preamble, trailing commentary). Every
// structured planner stage (router, supervisor, auditor, budget extractor)
// runs its raw completion through this before parsing.
package jsonsalvage

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*?\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*?\]`)
)

// Extract returns the first parseable JSON value found in text, decoded into
// v. It tries, in order: the first {...} match, the first [...] match, then
// the whole trimmed text. It reports whether any attempt succeeded.
func Extract(text string, v any) bool {
	if m := objectPattern.FindString(text); m != "" {
		if json.Unmarshal([]byte(m), v) == nil {
			return true
		}
	}
	if m := arrayPattern.FindString(text); m != "" {
		if json.Unmarshal([]byte(m), v) == nil {
			return true
		}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return json.Unmarshal([]byte(trimmed), v) == nil
}

// ExtractRaw behaves like Extract but returns the matched raw JSON text
// instead of decoding it, for callers that want to re-parse into a
// type-specific struct while still benefiting from the salvage strategy.
func ExtractRaw(text string) (json.RawMessage, bool) {
	var probe any
	if m := objectPattern.FindString(text); m != "" {
		if json.Unmarshal([]byte(m), &probe) == nil {
			return json.RawMessage(m), true
		}
	}
	if m := arrayPattern.FindString(text); m != "" {
		if json.Unmarshal([]byte(m), &probe) == nil {
			return json.RawMessage(m), true
		}
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	if json.Unmarshal([]byte(trimmed), &probe) == nil {
		return json.RawMessage(trimmed), true
	}
	return nil, false
}
