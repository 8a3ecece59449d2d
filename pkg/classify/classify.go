// Package classify maps component display names onto the gallery's
// category/subcategory tree using simple name heuristics.
package classify

import (
	"regexp"
	"strings"
)

// Rule matches a component name by substring and assigns its placement.
// Rules are evaluated in order; the first match wins.
type Rule struct {
	Match       string
	Category    string
	Subcategory string
}

// DefaultRules is the ordered classification table. More specific names
// must come before generic ones (e.g. "Pricing Table" before "Table").
var DefaultRules = []Rule{
	{Match: "Navbar", Category: "Marketing", Subcategory: "Navbars"},
	{Match: "Hero", Category: "Marketing", Subcategory: "Heroes"},
	{Match: "Pricing", Category: "Marketing", Subcategory: "Pricing"},
	{Match: "Testimonial", Category: "Marketing", Subcategory: "Testimonials"},
	{Match: "Feature", Category: "Marketing", Subcategory: "Feature Sections"},
	{Match: "CTA", Category: "Marketing", Subcategory: "CTA Sections"},
	{Match: "Call To Action", Category: "Marketing", Subcategory: "CTA Sections"},
	{Match: "Footer", Category: "Marketing", Subcategory: "Footers"},
	{Match: "Banner", Category: "Marketing", Subcategory: "Banners"},
	{Match: "Stat", Category: "Marketing", Subcategory: "Stats"},
	{Match: "Team", Category: "Marketing", Subcategory: "Team Sections"},
	{Match: "FAQ", Category: "Marketing", Subcategory: "FAQs"},
	{Match: "Newsletter", Category: "Marketing", Subcategory: "Newsletter Sections"},
	{Match: "Sidebar", Category: "Application", Subcategory: "Sidebars"},
	{Match: "Table", Category: "Application", Subcategory: "Tables"},
	{Match: "Form", Category: "Application", Subcategory: "Forms"},
	{Match: "Modal", Category: "Application", Subcategory: "Modals"},
	{Match: "Card", Category: "Application", Subcategory: "Cards"},
	{Match: "List", Category: "Application", Subcategory: "Lists"},
	{Match: "Badge", Category: "Application", Subcategory: "Badges"},
	{Match: "Alert", Category: "Application", Subcategory: "Alerts"},
	{Match: "Input", Category: "Application", Subcategory: "Inputs"},
	{Match: "Button", Category: "Application", Subcategory: "Buttons"},
}

var trailingIndex = regexp.MustCompile(`\s+\d+$`)

// BaseName strips the trailing index number from a component display name,
// e.g. "Navbar 12" becomes "Navbar".
func BaseName(name string) string {
	return trailingIndex.ReplaceAllString(strings.TrimSpace(name), "")
}

// Classify returns the (category, subcategory) for a component name using
// DefaultRules, defaulting to ("Unknown", base name) when no rule matches.
func Classify(name string) (string, string) {
	return ClassifyWith(DefaultRules, name)
}

// ClassifyWith classifies a name against an explicit ordered rule table.
func ClassifyWith(rules []Rule, name string) (string, string) {
	base := BaseName(name)
	lower := strings.ToLower(base)
	for _, rule := range rules {
		if strings.Contains(lower, strings.ToLower(rule.Match)) {
			return rule.Category, rule.Subcategory
		}
	}
	return "Unknown", base
}
