package gallery

import (
	"errors"
	"fmt"
)

var (
	// ErrInconsistentSource marks an item whose displayed source matches
	// neither of its recorded URLs.
	ErrInconsistentSource = errors.New("inconsistent item source")
	ErrItemNotFound       = errors.New("item not found")
)

// SourceError reports the offending source alongside the two valid ones.
type SourceError struct {
	ItemID   string
	Source   string
	Static   string
	Animated string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("current source %q of item %s is not recognized as a static or animated source", e.Source, e.ItemID)
}

func (e *SourceError) Unwrap() error {
	return ErrInconsistentSource
}
