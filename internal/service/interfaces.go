package service

import "context"

// AnalyticsTracker defines the interface for tracking analytics events
type AnalyticsTracker interface {
	// Track validates a decoded tracking payload and forwards the resulting
	// record. fields is the raw JSON object; userAgent comes from the request
	// header, never the body.
	Track(ctx context.Context, fields map[string]any, userAgent string) error
}
