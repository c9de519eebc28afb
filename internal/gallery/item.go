package gallery

// Item is a rendered Result together with its displayed source.
type Item struct {
	Result
	source string
}

// NewItem returns an item showing the static rendering.
func NewItem(r Result) *Item {
	return &Item{Result: r, source: r.StaticURL}
}

// Source is the URL currently displayed.
func (it *Item) Source() string {
	return it.source
}

// Variant reports which recorded URL is displayed. The static URL wins when
// both URLs are identical.
func (it *Item) Variant() (Variant, error) {
	switch it.source {
	case it.StaticURL:
		return Static, nil
	case it.AnimatedURL:
		return Animated, nil
	default:
		return Static, it.sourceError()
	}
}

// Toggle flips between the static and animated rendering. An item whose
// source matches neither URL is left untouched and a *SourceError is returned.
func (it *Item) Toggle() error {
	switch it.source {
	case it.StaticURL:
		it.source = it.AnimatedURL
	case it.AnimatedURL:
		it.source = it.StaticURL
	default:
		return it.sourceError()
	}
	return nil
}

func (it *Item) sourceError() error {
	return &SourceError{
		ItemID:   it.ID,
		Source:   it.source,
		Static:   it.StaticURL,
		Animated: it.AnimatedURL,
	}
}
