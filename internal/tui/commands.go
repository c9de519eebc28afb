package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/gallery"
	"github.com/pders01/gifr/internal/media"
)

const findLimit = 50

// searchTopic runs one search off the event loop. The result comes back as a
// searchCompletedMsg; nothing here touches the feed.
func (a *App) searchTopic(topic string) tea.Cmd {
	d := a.dispatcher
	return func() tea.Msg {
		results, err := d.Search(context.Background(), topic)
		return searchCompletedMsg{topic: topic, results: results, err: err}
	}
}

// persistTopic stores a user-added topic. Failures are logged and never
// surface in the UI.
func (a *App) persistTopic(text string) tea.Cmd {
	if a.store == nil || !a.config.Topics.Persist {
		return nil
	}
	store := a.store
	return func() tea.Msg {
		if err := retryOperation(func() error { return store.AppendTopic(text) }); err != nil {
			debuglog.Warnf("persisting topic %q: %v", text, err)
		}
		return nil
	}
}

// performFind queries the find index. It runs on the event loop because
// hits are resolved against the feed, which only the loop may read.
func (a *App) performFind(query string) tea.Cmd {
	seq := a.findSeq
	if query == "" {
		return func() tea.Msg { return findResultsMsg{seq: seq} }
	}

	results, err := a.finder.Search(query, findLimit)
	if err != nil {
		return func() tea.Msg { return errorMsg{err: wrapErr("find", err)} }
	}
	return func() tea.Msg {
		return findResultsMsg{seq: seq, query: query, results: results}
	}
}

// detailMarkdown describes an item as markdown. Called on the event loop so
// the displayed source is read consistently.
func detailMarkdown(it *gallery.Item) string {
	v, err := it.Variant()
	variant := strings.ToLower(v.String())
	if err != nil {
		variant = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", it.Topic)
	fmt.Fprintf(&b, "*%s*\n\n", it.AltText)
	fmt.Fprintf(&b, "**Rating:** %s\n\n", it.Rating)
	fmt.Fprintf(&b, "**Showing:** %s\n\n", variant)
	fmt.Fprintf(&b, "**Fetched:** %s\n\n", it.FetchedAt.Format(time.RFC1123))
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "- Static: %s\n", it.StaticURL)
	fmt.Fprintf(&b, "- Animated: %s\n", it.AnimatedURL)
	return b.String()
}

func (a *App) renderDetail(id, markdown string, r *glamour.TermRenderer) tea.Cmd {
	return func() tea.Msg {
		rendered, err := r.Render(markdown)
		if err != nil {
			return detailRenderedMsg{id: id, content: fmt.Sprintf("Failed to render details: %v\n\nPress Esc to go back.", err)}
		}
		return detailRenderedMsg{id: id, content: rendered}
	}
}

// viewerNamer is implemented by openers that can name the program they use.
type viewerNamer interface {
	Viewer(url string) (string, media.Type)
}

func (a *App) openMedia(url string) tea.Cmd {
	opener := a.opener
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return errorMsg{err: fmt.Errorf("failed to open %s: %w", url, err)}
		}
		viewer := "default viewer"
		if vn, ok := opener.(viewerNamer); ok {
			if name, _ := vn.Viewer(url); name != "" {
				viewer = name
			}
		}
		return mediaOpenedMsg{url: url, viewer: viewer}
	}
}

// retryOperation retries a database operation up to 3 times with exponential backoff
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				time.Sleep(baseDelay * time.Duration(1<<i))
			}
			continue
		}
		return nil
	}
	return lastErr
}
