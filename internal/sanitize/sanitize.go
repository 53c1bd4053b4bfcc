// Package sanitize cleans one path segment at a time: it is pure,
// allocates no state, and is safe to call concurrently from every worker
// task of a relocate or pattern-evaluation call.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// MaxSegmentLength is the default code-point clamp (spec: 100 code points,
// not UTF-16 code units — see DESIGN.md Open Question 3).
const MaxSegmentLength = 100

// UnknownPlaceholder is substituted for a segment that sanitizes to empty.
const UnknownPlaceholder = "Unknown"

// illegal is the character class from spec §4.4: <>:"/\|?* plus ASCII
// control characters.
func isIllegal(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return r < 0x20 || r == 0x7f
}

// Segment cleans one path component: illegal characters become `_`, runs of
// `_` collapse to one, leading/trailing `_` are stripped, the result is
// clamped to maxLen code points (MaxSegmentLength when maxLen <= 0), and an
// empty or whitespace-only result becomes placeholder (UnknownPlaceholder
// when placeholder is empty.
//
// Segment is idempotent: Segment(Segment(x)) == Segment(x).
func Segment(s string, maxLen int, placeholder string) string {
	if maxLen <= 0 {
		maxLen = MaxSegmentLength
	}
	if placeholder == "" {
		placeholder = UnknownPlaceholder
	}

	if strings.TrimSpace(s) == "" {
		return placeholder
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isIllegal(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	cleaned = collapseUnderscores(cleaned)
	cleaned = strings.Trim(cleaned, "_")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return placeholder
	}

	cleaned = clampCodePoints(cleaned, maxLen)
	cleaned = strings.Trim(cleaned, "_")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return placeholder
	}

	return cleaned
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

func clampCodePoints(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
