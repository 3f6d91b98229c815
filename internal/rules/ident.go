package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// normName brings an identifier into NFC so comparisons behave the same no
// matter which normalization form the frontend emitted.
func normName(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// nameContains reports whether the normalized haystack contains the
// normalized needle as a substring.
func nameContains(haystack, needle string) bool {
	return strings.Contains(normName(haystack), normName(needle))
}

// splitSegments splits a (possibly dotted) namespace name into its levels.
func splitSegments(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(normName(name), ".")
}
