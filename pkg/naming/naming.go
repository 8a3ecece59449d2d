// Package naming provides the slug and file name conversions used across
// discovery and download. All functions are pure and total.
package naming

import (
	"strings"
	"unicode"
)

// ToSlug converts a display name to its canonical slug form: lowercased,
// with runs of whitespace collapsed to single hyphens. The slug is the
// resume and dedup key, so the transform must stay deterministic.
func ToSlug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}

// ToDisplayForm converts a slug back to its capitalized concatenated form,
// e.g. "navbar-1" becomes "Navbar1". Multi-word casing beyond initial
// capitals is not recoverable; callers treat that as the contract.
func ToDisplayForm(slug string) string {
	var b strings.Builder
	for _, part := range strings.Split(slug, "-") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// SanitizePathSegment strips every character outside [A-Za-z0-9-] so the
// result is always safe as a single path element.
func SanitizePathSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
