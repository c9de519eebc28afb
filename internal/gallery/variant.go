package gallery

// Variant is the rendering currently shown for an item.
type Variant int

const (
	Static Variant = iota
	Animated
)

func (v Variant) String() string {
	switch v {
	case Static:
		return "STATIC"
	case Animated:
		return "ANIMATED"
	default:
		return "UNKNOWN"
	}
}
