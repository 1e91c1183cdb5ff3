package utils

import (
	"regexp"
	"strings"
)

// \s in RE2 is ASCII-only, so Unicode separators (NBSP included), \v and NEL are listed explicitly.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{0085}]+`)

// NormalizeText replaces non-breaking spaces and collapses every whitespace run into one space.
// The result is not trimmed.
func NormalizeText(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ReplaceAll(s, "\u00a0", " "), " ")
}

// NormalizeTextPtr is NormalizeText for optional values; nil stays nil.
func NormalizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	n := NormalizeText(*s)
	return &n
}

// Normalize applies NormalizeText to every string inside v, recursing through
// slices and string-keyed maps. The returned value has the same shape as v;
// anything else is returned unchanged. The input is never modified.
func Normalize(v any) any {
	switch t := v.(type) {
	case string:
		return NormalizeText(t)
	case *string:
		return NormalizeTextPtr(t)
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = NormalizeText(s)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = NormalizeText(s)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	default:
		return v
	}
}
