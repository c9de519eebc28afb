package storage

import (
	"time"
)

// Topic is a user-added topic kept across sessions.
type Topic struct {
	Seq     uint64    `json:"seq"`
	Text    string    `json:"text"`
	AddedAt time.Time `json:"added_at"`
}

// SearchRecord is one completed search, successful or not.
type SearchRecord struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	RequestedAt time.Time `json:"requested_at"`
	CompletedAt time.Time `json:"completed_at"`
	Count       int       `json:"count"`
	Error       string    `json:"error,omitempty"`
}

// Failed reports whether the search ended in an error.
func (r *SearchRecord) Failed() bool {
	return r.Error != ""
}

// Duration is the wall time between request and completion.
func (r *SearchRecord) Duration() time.Duration {
	if r.CompletedAt.Before(r.RequestedAt) {
		return 0
	}
	return r.CompletedAt.Sub(r.RequestedAt)
}
