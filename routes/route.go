package routes

import (
	"fmt"
	"strings"

	"github.com/marcelsud/complaint-notifier/webhook/payload"
)

const (
	ComplaintCreated = "complaint.created"
	TextRewrite      = "text.rewrite"
)

/* Route maps a domain event to the path appended to the webhook base URL
 * MaxAttempts overrides the global retry bound when set
 */
type Route struct {
	Event       string
	Path        string
	MaxAttempts *int
	// Sync routes are called inline by another feature and never queued
	Sync bool
}

// Validate checks if the route configuration is valid
func (r *Route) Validate() error {
	if err := payload.ValidateEventName(r.Event); err != nil {
		return fmt.Errorf("invalid event for route: %w", err)
	}
	if r.Path == "" {
		return fmt.Errorf("path cannot be empty for event %s", r.Event)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("path must start with '/' for event %s (got %q)", r.Event, r.Path)
	}
	if r.MaxAttempts != nil && *r.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts cannot be negative for event %s", r.Event)
	}
	return nil
}

// URL joins the base URL and the route path
func (r *Route) URL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + r.Path
}

// GetMaxAttempts returns the retry bound
// Priority: route-specific > global default
func (r *Route) GetMaxAttempts(global int) int {
	if r.MaxAttempts != nil {
		return *r.MaxAttempts
	}
	return global
}
