package utils

import "strings"

// TruncateRunes caps s at max runes. Used to bound prompt size; cutting
// mid-rune would corrupt multi-byte text, so it operates on runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// FirstNonEmpty returns the first non-blank value, or the fallback.
func FirstNonEmpty(fallback string, candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && strings.TrimSpace(*c) != "" {
			return *c
		}
	}
	return fallback
}
