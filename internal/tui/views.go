package tui

type View int

const (
	ViewBrowse View = iota
	ViewAddTopic
	ViewFind
	ViewDetail
)

// Pane is the browse view column holding keyboard focus.
type Pane int

const (
	PaneTopics Pane = iota
	PaneResults
)
