// Package sanitize strips control characters from values before they are
// written to Postgres, which rejects embedded NUL bytes in text columns.
package sanitize

import "strings"

// String removes NUL and other C0 control characters from s, keeping tab,
// newline and carriage return. It is pure and idempotent.
func String(s string) string {
	if !strings.ContainsFunc(s, isStripped) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isStripped(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isStripped(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7f
}

// Value sanitizes every string reachable from v: strings directly, map
// values and slice elements recursively. Other values pass through
// untouched, so it never fails regardless of input shape.
func Value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return String(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Value(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Value(e)
		}
		return out
	default:
		return v
	}
}
