package naming

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Navbar 1", "navbar-1"},
		{"multi word", "Pricing Table 3", "pricing-table-3"},
		{"already lower", "hero 2", "hero-2"},
		{"extra whitespace", "  Footer   7 ", "footer-7"},
		{"tabs and newlines", "Feature\tSection\n4", "feature-section-4"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToSlug(tt.input))
		})
	}
}

func TestToDisplayForm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single word", "navbar-1", "Navbar1"},
		{"multi word", "pricing-table-3", "PricingTable3"},
		{"no number", "hero", "Hero"},
		{"empty segments", "a--b", "AB"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToDisplayForm(tt.input))
		})
	}
}

// Names built from capitalized words and a trailing number round-trip to
// their whitespace-stripped form.
func TestSlugDisplayRoundTrip(t *testing.T) {
	names := []string{
		"Navbar 1",
		"Hero 12",
		"Pricing Table 3",
		"Feature Section 4",
		"Call To Action 9",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			stripped := strings.ReplaceAll(name, " ", "")
			assert.Equal(t, stripped, ToDisplayForm(ToSlug(name)))
		})
	}
}

func TestSanitizePathSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean", "marketing", "marketing"},
		{"spaces dropped", "page sections", "pagesections"},
		{"slashes dropped", "../../etc/passwd", "etcpasswd"},
		{"keeps hyphens and digits", "navbars-2", "navbars-2"},
		{"unicode dropped", "café™", "caf"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizePathSegment(tt.input))
		})
	}
}

func TestSanitizePathSegmentIdempotent(t *testing.T) {
	inputs := []string{"marketing", "page sections!", "../x", "Ünïcode-9", "", "a b c 1"}
	valid := regexp.MustCompile(`^[A-Za-z0-9-]*$`)

	for _, in := range inputs {
		once := SanitizePathSegment(in)
		assert.Equal(t, once, SanitizePathSegment(once), "sanitize should be idempotent for %q", in)
		assert.Regexp(t, valid, once)
	}
}
