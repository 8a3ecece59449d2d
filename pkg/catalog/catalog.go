// Package catalog holds the persisted enumeration of discoverable
// components and its file-backed repository.
package catalog

import (
	"time"
)

// Metadata holds the optional per-component detail fields. It is only
// populated after a successful download.
type Metadata struct {
	ReactVersion    string `json:"reactVersion,omitempty"`
	TailwindVersion string `json:"tailwindVersion,omitempty"`
	LastUpdated     string `json:"lastUpdated,omitempty"`
}

// Component is a single catalog entry. Slug is the unique, case-normalized
// identity derived from Name; it is the sole key used for dedup and resume.
type Component struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	URL         string    `json:"url"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Catalog is the persisted result of a discovery run. It is immutable once
// a download run starts; download only reads it.
type Catalog struct {
	TotalComponents int         `json:"totalComponents"`
	DiscoveredAt    time.Time   `json:"discoveredAt"`
	Components      []Component `json:"components"`
}

// New returns a fresh empty catalog stamped with the current time
func New() *Catalog {
	return &Catalog{
		DiscoveredAt: time.Now(),
		Components:   []Component{},
	}
}

// Append adds a component record. Duplicate slugs are not rejected here;
// resume keys on slug, so a re-discovered duplicate is skipped downstream.
func (c *Catalog) Append(component Component) {
	c.Components = append(c.Components, component)
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.Components)
}

// Remaining returns the entries whose slug the seen predicate rejects, in
// catalog order. This is the resume/idempotence boundary: an entry already
// completed or failed is excluded.
func (c *Catalog) Remaining(seen func(slug string) bool) []Component {
	remaining := make([]Component, 0, len(c.Components))
	for _, component := range c.Components {
		if !seen(component.Slug) {
			remaining = append(remaining, component)
		}
	}
	return remaining
}
