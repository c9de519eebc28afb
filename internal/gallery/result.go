// Package gallery holds the result feed and the per-item static/animated
// view state.
package gallery

import (
	"strings"
	"time"
)

// AltTextPrefix is prepended to the topic to build a result's alt text.
const AltTextPrefix = "A randomly found photo related to our topic of: "

// Result is one media record returned for a topic query. It is immutable
// once created.
type Result struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	StaticURL   string    `json:"static_url"`
	AnimatedURL string    `json:"animated_url"`
	Rating      string    `json:"rating"`
	AltText     string    `json:"alt_text"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// AltText builds the alt text shown for results of topic.
func AltText(topic string) string {
	return AltTextPrefix + topic
}

// NormalizeRating upper-cases a classification label for display.
func NormalizeRating(rating string) string {
	return strings.ToUpper(rating)
}
