package gallery

import "iter"

// Feed is the ordered result collection, newest first. It only grows: new
// batches go on top and existing items never move relative to each other.
// A Feed is owned by a single event loop and is not safe for concurrent use.
type Feed struct {
	items []*Item
	byID  map[string]*Item
}

func NewFeed() *Feed {
	return &Feed{byID: make(map[string]*Item)}
}

// Prepend inserts results as one block above every existing item, keeping
// their order: results[0] ends up on top.
func (f *Feed) Prepend(results ...Result) []*Item {
	if len(results) == 0 {
		return nil
	}

	added := make([]*Item, len(results))
	for i, r := range results {
		it := NewItem(r)
		added[i] = it
		if r.ID != "" {
			f.byID[r.ID] = it
		}
	}

	items := make([]*Item, 0, len(added)+len(f.items))
	items = append(items, added...)
	items = append(items, f.items...)
	f.items = items

	return added
}

// Items returns the feed top to bottom. The slice is a copy; the items are not.
func (f *Feed) Items() []*Item {
	out := make([]*Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) All() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, it := range f.items {
			if !yield(it) {
				return
			}
		}
	}
}

func (f *Feed) Len() int {
	return len(f.items)
}

func (f *Feed) Get(id string) (*Item, bool) {
	it, ok := f.byID[id]
	return it, ok
}

// Index reports the position of the item with id, or -1.
func (f *Feed) Index(id string) int {
	for i, it := range f.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Toggle flips the item with id and returns it.
func (f *Feed) Toggle(id string) (*Item, error) {
	it, ok := f.byID[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if err := it.Toggle(); err != nil {
		return it, err
	}
	return it, nil
}
