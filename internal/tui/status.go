package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Canonical short status messages used across the app.
const (
	MsgNoResults   = "No results"
	MsgNoSelection = "Nothing selected"
	MsgRendering   = "Rendering…"
)

func MsgSearching(topic string) string {
	return fmt.Sprintf("Searching '%s'…", strings.TrimSpace(topic))
}

func MsgTopicAdded(topic string) string {
	return fmt.Sprintf("Added topic '%s'", strings.TrimSpace(topic))
}

func MsgResultsCount(n int, topic string) string {
	if n == 0 {
		return fmt.Sprintf("No results for '%s'", topic)
	}
	if n == 1 {
		return fmt.Sprintf("1 result for '%s'", topic)
	}
	return fmt.Sprintf("%d results for '%s'", n, topic)
}

func MsgPending(n int) string {
	if n == 1 {
		return "1 search in flight"
	}
	return fmt.Sprintf("%d searches in flight", n)
}

func MsgOpened(viewer string) string {
	return fmt.Sprintf("Opened in %s", viewer)
}

func MsgFindIndex(engine string, docs int) string {
	if docs < 0 {
		return fmt.Sprintf("Find: %s", engine)
	}
	return fmt.Sprintf("Find: %s • idx: %d docs", engine, docs)
}

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
