// Package topics keeps the ordered list of topic keywords shown as search
// selectors.
package topics

// RenderFunc replaces every previously rendered selector with one per topic.
type RenderFunc func(topics []string)

// Registry is the session's topic list. Topics are only ever appended.
// It is owned by the UI event loop and is not safe for concurrent use.
type Registry struct {
	topics []string
	render RenderFunc
}

func New(render RenderFunc) *Registry {
	if render == nil {
		render = func([]string) {}
	}
	return &Registry{render: render}
}

// Initialize replaces the list with a copy of seed and renders it.
func (r *Registry) Initialize(seed []string) {
	r.topics = append(make([]string, 0, len(seed)), seed...)
	r.Render()
}

// Add appends text verbatim and re-renders. Only the empty string is
// ignored, reported as false; whitespace and duplicates are kept as typed.
func (r *Registry) Add(text string) bool {
	if text == "" {
		return false
	}
	r.topics = append(r.topics, text)
	r.Render()
	return true
}

// Render hands the full list to the renderer.
func (r *Registry) Render() {
	r.render(r.Topics())
}

func (r *Registry) Topics() []string {
	out := make([]string, len(r.topics))
	copy(out, r.topics)
	return out
}

func (r *Registry) Len() int {
	return len(r.topics)
}

// At returns the topic at index i.
func (r *Registry) At(i int) (string, bool) {
	if i < 0 || i >= len(r.topics) {
		return "", false
	}
	return r.topics[i], true
}
