// Package slug derives compact URL-safe identifier codes from display names.
package slug

import (
	"strings"
	"unicode"
)

// Derive lower-cases the name and drops every rune outside letters and
// digits. Separators are removed outright, not replaced, so "Acme & Sons"
// becomes "acmesons". Uniqueness is not checked here; the store's key
// constraint is the authority and a duplicate surfaces as a conflict there.
func Derive(name string) string {
	lowered := strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, lowered)
}
