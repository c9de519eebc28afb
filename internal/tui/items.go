package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/gallery"
	"github.com/pders01/gifr/internal/search"
)

type topicItem struct {
	text  string
	index int
}

func (i topicItem) Title() string       { return i.text }
func (i topicItem) Description() string { return "" }
func (i topicItem) FilterValue() string { return i.text }

type resultItem struct {
	item *gallery.Item
}

func (i resultItem) FilterValue() string { return i.item.Topic + " " + i.item.Rating }

// variantBadge labels the displayed rendering. An item whose source matches
// neither URL is flagged rather than guessed.
func variantBadge(it *gallery.Item) string {
	v, err := it.Variant()
	if err != nil {
		return ErrorMessageStyle.Render("[?]")
	}
	if v == gallery.Animated {
		return AnimatedBadgeStyle.Render("[▶ ANIMATED]")
	}
	return StaticBadgeStyle.Render("[■ STATIC]")
}

func caption(it *gallery.Item) string {
	return "Rating: " + it.Rating
}

// resultDelegate draws a result as alt text, displayed source and caption.
// The caption is hidden on the row under the cursor while the results pane
// has focus, the keyboard stand-in for hovering.
type resultDelegate struct {
	app *App
}

func (d resultDelegate) Height() int                             { return 3 }
func (d resultDelegate) Spacing() int                            { return 1 }
func (d resultDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d resultDelegate) captionHidden(index int, m list.Model) bool {
	return d.app.config.UI.CaptionOnHover &&
		d.app.view == ViewBrowse &&
		d.app.focus == PaneResults &&
		index == m.Index()
}

func (d resultDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	ri, ok := li.(resultItem)
	if !ok {
		return
	}
	it := ri.item
	width := m.Width() - 2

	cursor := "  "
	titleStyle := lipgloss.NewStyle().Foreground(TextColor)
	if index == m.Index() {
		cursor = SelectedItemStyle.Render("› ")
		titleStyle = SelectedItemStyle
	}

	title := cursor + variantBadge(it) + " " + titleStyle.Render(truncateEnd(it.AltText, max(width-16, 8)))
	source := "  " + renderMuted(truncateMiddle(it.Source(), max(width-2, 8)))

	captionLine := ""
	if !d.captionHidden(index, m) {
		captionLine = "  " + CaptionStyle.Render(caption(it))
	}

	fmt.Fprint(w, strings.Join([]string{title, source, captionLine}, "\n"))
}

type findItem struct {
	result *search.Result
}

func (i findItem) Title() string {
	it := i.result.Item
	return variantBadge(it) + " " + it.Topic
}

func (i findItem) Description() string {
	it := i.result.Item
	return renderMuted(fmt.Sprintf("%s • %s • score %.2f", caption(it), it.FetchedAt.Format("15:04:05"), i.result.Score))
}

func (i findItem) FilterValue() string { return i.result.Item.Topic }

func newTopicDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(AccentColor).
		BorderForeground(AccentColor)
	return d
}
