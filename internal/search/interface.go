package search

import (
	"iter"

	"github.com/pders01/gifr/internal/gallery"
)

// Searcher defines the minimal find API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Source is the item collection a searcher resolves hits against.
// *gallery.Feed satisfies it.
type Source interface {
	All() iter.Seq[*gallery.Item]
	Get(id string) (*gallery.Item, bool)
}

// UpdateListener can be implemented by search engines that maintain
// an external index and want to be notified about new results.
type UpdateListener interface {
	OnResultsAdded(results []gallery.Result)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}
