package scraper

import "context"

// Automation defines the browser-automation collaborator surface used by
// both phases. One interactive browsing session sits behind it, so calls
// are never issued concurrently.
type Automation interface {
	Navigate(ctx context.Context, url string) error
	Act(ctx context.Context, instruction string) error
	Extract(ctx context.Context, instruction string, schema map[string]interface{}) (string, error)
	Screenshot(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}
