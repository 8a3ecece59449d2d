// Package progress holds the persisted per-slug outcome record that makes
// download runs resumable.
package progress

import (
	"time"
)

// Record tracks which slugs have already been resolved. Slugs are only ever
// appended; nothing in this system removes a slug or moves it between the
// two sets.
type Record struct {
	Completed   []string  `json:"completed"`
	Failed      []string  `json:"failed"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// New returns an empty progress record
func New() *Record {
	return &Record{
		Completed: []string{},
		Failed:    []string{},
	}
}

// MarkCompleted appends a slug to the completed set
func (r *Record) MarkCompleted(slug string) {
	r.Completed = append(r.Completed, slug)
}

// MarkFailed appends a slug to the failed set
func (r *Record) MarkFailed(slug string) {
	r.Failed = append(r.Failed, slug)
}

// Seen reports whether a slug appears in either set. Resume treats presence
// in either as "skip".
func (r *Record) Seen(slug string) bool {
	return contains(r.Completed, slug) || contains(r.Failed, slug)
}

// ClearFailed empties the failed set so those slugs become eligible again.
// This is the only explicit requeue path; it never runs implicitly.
func (r *Record) ClearFailed() {
	r.Failed = []string{}
}

func contains(slugs []string, slug string) bool {
	for _, s := range slugs {
		if s == slug {
			return true
		}
	}
	return false
}
