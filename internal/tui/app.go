// Package tui is the terminal front end: a topic pane, the result feed and the
// find and detail views, driven by a single bubbletea event loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/debuglog"
	"github.com/pders01/gifr/internal/dispatch"
	"github.com/pders01/gifr/internal/gallery"
	"github.com/pders01/gifr/internal/giphy"
	"github.com/pders01/gifr/internal/media"
	"github.com/pders01/gifr/internal/search"
	"github.com/pders01/gifr/internal/storage"
	"github.com/pders01/gifr/internal/topics"
)

// Opener shows a URL in an external viewer.
type Opener interface {
	Open(url string) error
}

// Option customizes an App at construction.
type Option func(*App)

// WithSearcher replaces the HTTP search client.
func WithSearcher(s dispatch.Searcher) Option {
	return func(a *App) { a.searcher = s }
}

// WithOpener replaces the media launcher.
func WithOpener(o Opener) Option {
	return func(a *App) { a.opener = o }
}

type App struct {
	config     *config.Config
	store      *storage.Store
	searcher   dispatch.Searcher
	dispatcher *dispatch.Dispatcher
	registry   *topics.Registry
	feed       *gallery.Feed
	finder     search.Searcher
	opener     Opener
	keyHandler *KeyHandler
	keys       keyMap

	topicList  list.Model
	resultList list.Model
	findList   list.Model
	topicInput textinput.Model
	findInput  textinput.Model
	viewport   viewport.Model
	help       help.Model
	spinner    spinner.Model

	view         View
	previousView View
	focus        Pane

	pending    int
	findSeq    int
	status     string
	statusKind StatusKind
	err        error

	detailItem      *gallery.Item
	loadingDetail   bool
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int

	width  int
	height int
}

// NewApp builds the browser. store may be nil, which disables topic
// persistence and search history.
func NewApp(store *storage.Store, cfg *config.Config, opts ...Option) *App {
	ApplyColors(cfg.UI.Colors)

	topicList := list.New([]list.Item{}, newTopicDelegate(), 0, 0)
	topicList.Title = "› topics"
	topicList.SetShowStatusBar(false)
	topicList.SetFilteringEnabled(false)
	topicList.SetShowHelp(false)
	topicList.DisableQuitKeybindings()

	findList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	findList.Title = "› matches"
	findList.SetShowStatusBar(false)
	findList.SetFilteringEnabled(false)
	findList.SetShowHelp(false)
	findList.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "New topic…"
	ti.CharLimit = 128

	fi := textinput.New()
	fi.Placeholder = "Find in results…"
	fi.CharLimit = 256

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:       cfg,
		store:        store,
		feed:         gallery.NewFeed(),
		keys:         newKeyMap(cfg),
		topicList:    topicList,
		findList:     findList,
		topicInput:   ti,
		findInput:    fi,
		viewport:     viewport.New(0, 0),
		help:         help.New(),
		spinner:      sp,
		view:         ViewBrowse,
		previousView: ViewBrowse,
		focus:        PaneTopics,
	}

	resultList := list.New([]list.Item{}, resultDelegate{app: app}, 0, 0)
	resultList.Title = "› results"
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(false)
	resultList.DisableQuitKeybindings()
	app.resultList = resultList

	for _, opt := range opts {
		opt(app)
	}

	if app.searcher == nil {
		app.searcher = giphy.NewClient(cfg)
	}
	app.dispatcher = dispatch.New(app.searcher)
	if store != nil {
		app.dispatcher.WithHistory(store)
	}
	if app.opener == nil {
		app.opener = media.NewLauncher(cfg)
	}

	if engine, err := search.NewBleveEngine(app.feed); err == nil {
		app.finder = engine
	} else {
		debuglog.Warnf("bleve index unavailable, using scan engine: %v", err)
		app.finder = search.NewEngine(app.feed)
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	app.registry = topics.New(app.renderTopics)
	app.registry.Initialize(app.initialTopics())

	return app
}

// initialTopics is the configured seed followed by topics persisted from
// earlier sessions.
func (a *App) initialTopics() []string {
	seed := append([]string(nil), a.config.Topics.Seed...)
	if a.store == nil || !a.config.Topics.Persist {
		return seed
	}
	saved, err := a.store.TopicTexts()
	if err != nil {
		debuglog.Warnf("loading saved topics: %v", err)
		return seed
	}
	return append(seed, saved...)
}

// renderTopics replaces every topic selector with one per topic.
func (a *App) renderTopics(ts []string) {
	items := make([]list.Item, len(ts))
	for i, t := range ts {
		items[i] = topicItem{text: t, index: i}
	}
	a.topicList.SetItems(items)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Detail.WordWrapMaxWidth
	minWidth := a.config.UI.Detail.WordWrapMinWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	wordWrapWidth = min(wordWrapWidth, maxWidth)
	wordWrapWidth = max(wordWrapWidth, minWidth)
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle(AppName)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case spinner.TickMsg:
		if a.pending == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case searchCompletedMsg:
		a.applySearch(msg)
		return a, nil

	case findDebounceMsg:
		if a.view == ViewFind && msg.seq == a.findSeq {
			return a, a.performFind(msg.query)
		}
		return a, nil

	case findResultsMsg:
		if a.view == ViewFind && msg.seq == a.findSeq {
			items := make([]list.Item, len(msg.results))
			for i, r := range msg.results {
				items[i] = findItem{result: r}
			}
			a.findList.SetItems(items)
			if len(items) == 0 && msg.query != "" {
				a.setStatus(MsgNoResults, StatusInfo)
			} else {
				a.setStatus(fmt.Sprintf("%d matches", len(items)), StatusInfo)
			}
		}
		return a, nil

	case detailRenderedMsg:
		if a.view == ViewDetail && a.detailItem != nil && a.detailItem.ID == msg.id {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingDetail = false
		}
		return a, nil

	case mediaOpenedMsg:
		a.setStatus(MsgOpened(msg.viewer), StatusSuccess)
		return a, nil

	case errorMsg:
		a.setError(msg.err)
		return a, nil
	}

	return a, nil
}

// applySearch places a completed batch on top of the feed. Batches land in
// completion order; a failure leaves every rendered item in place.
func (a *App) applySearch(msg searchCompletedMsg) {
	if a.pending > 0 {
		a.pending--
	}

	if msg.err != nil {
		a.setError(wrapErr(fmt.Sprintf("search '%s'", msg.topic), msg.err))
		return
	}

	a.feed.Prepend(msg.results...)
	if l, ok := a.finder.(search.UpdateListener); ok {
		l.OnResultsAdded(msg.results)
	}
	a.refreshResults()
	a.setStatus(MsgResultsCount(len(msg.results), msg.topic), StatusSuccess)
}

// refreshResults rebuilds the result list from the feed, keeping the cursor
// on the item it was on.
func (a *App) refreshResults() {
	var selectedID string
	if ri, ok := a.resultList.SelectedItem().(resultItem); ok {
		selectedID = ri.item.ID
	}

	items := make([]list.Item, 0, a.feed.Len())
	for it := range a.feed.All() {
		items = append(items, resultItem{item: it})
	}
	a.resultList.SetItems(items)

	if selectedID != "" {
		if idx := a.feed.Index(selectedID); idx >= 0 {
			a.resultList.Select(idx)
		}
	}
}

func (a *App) selectedResult() (*gallery.Item, bool) {
	ri, ok := a.resultList.SelectedItem().(resultItem)
	if !ok {
		return nil, false
	}
	return ri.item, true
}

func (a *App) selectedTopic() (string, bool) {
	ti, ok := a.topicList.SelectedItem().(topicItem)
	if !ok {
		return "", false
	}
	return ti.text, true
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
}

// setError shows a recoverable failure inline.
func (a *App) setError(err error) {
	if err == nil {
		return
	}
	debuglog.Warnf("%v", err)
	a.err = err
}

// reportInternal shows a broken invariant and logs it at error level. The
// offending state is left as it was.
func (a *App) reportInternal(err error) {
	err = internalErr(err)
	debuglog.Errorf("%v", err)
	a.err = err
}

func (a *App) chromeHeight() int {
	h := 2 // separator + status line
	if a.help.ShowAll {
		h += lipgloss.Height(a.help.View(a.keys))
	}
	return h
}

func (a *App) layout() {
	bodyHeight := max(a.height-a.chromeHeight(), 3)

	topicWidth := max(a.width/4, 18)
	if topicWidth > a.width-20 {
		topicWidth = max(a.width/2, 1)
	}
	resultWidth := max(a.width-topicWidth, 1)

	a.topicList.SetSize(max(topicWidth-2, 1), max(bodyHeight-2, 1))
	a.resultList.SetSize(max(resultWidth-2, 1), max(bodyHeight-2, 1))
	a.findList.SetSize(a.width, max(bodyHeight-6, 3))

	a.viewport.Width = a.width
	a.viewport.Height = bodyHeight

	inputWidth := a.width - 8
	if inputWidth < 20 {
		inputWidth = max(a.width-4, 1)
	}
	a.topicInput.Width = inputWidth
	a.findInput.Width = inputWidth
	a.help.Width = a.width
}

func (a *App) View() string {
	bodyHeight := max(a.height-a.chromeHeight(), 3)
	var content string

	switch a.view {
	case ViewBrowse:
		content = a.browseView(bodyHeight)

	case ViewAddTopic:
		content = renderCentered(a.width, bodyHeight,
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render("› add topic"),
				"",
				renderInputFrame(a.topicInput.View(), a.topicInput.Focused(), a.topicInput.Width),
				"",
				renderHelp("Press Enter to add, Esc to cancel"),
			),
		)

	case ViewFind:
		helpText := ""
		switch {
		case a.findInput.Focused():
			helpText = "Type to find • Tab/↓: matches • Esc: back"
		case len(a.findList.Items()) > 0:
			helpText = "↑↓: navigate • Enter: jump to result • Tab: find box • Esc: back"
		default:
			helpText = "No matches • Tab: find box • Esc: back"
		}

		content = ContentWrapper(a.width, bodyHeight).Render(
			lipgloss.JoinVertical(
				lipgloss.Top,
				renderHeader("› find", fmt.Sprintf("%d results in feed", a.feed.Len()), a.width),
				renderInputFrame(a.findInput.View(), a.findInput.Focused(), a.findInput.Width),
				renderMuted(helpText),
				"",
				a.findList.View(),
			),
		)

	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, bodyHeight, renderMuted(MsgRendering))
		} else {
			content = a.viewport.View()
		}
	}

	rows := []string{content}
	if a.help.ShowAll {
		rows = append(rows, a.help.View(a.keys))
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	rows = append(rows, separator, a.statusBar())

	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func (a *App) browseView(bodyHeight int) string {
	topicWidth := a.topicList.Width() + 2
	resultWidth := max(a.width-topicWidth, 1)

	left := renderPane(a.topicList.View(), a.focus == PaneTopics, topicWidth, bodyHeight)

	var body string
	if a.feed.Len() == 0 {
		hint := fmt.Sprintf("Pick a topic and press %s", a.keys.Toggle.Help().Key)
		body = renderCentered(max(resultWidth-2, 1), max(bodyHeight-2, 1), GetWelcomeMessage(hint))
	} else {
		body = a.resultList.View()
	}
	right := renderPane(body, a.focus == PaneResults, resultWidth, bodyHeight)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// ContentWrapper returns a style for wrapping content with width and height constraints
func ContentWrapper(width, height int) lipgloss.Style {
	return EmptyStyle.Width(width).Height(height).MaxHeight(height)
}

func (a *App) statusBar() string {
	if a.err != nil {
		return StatusBarStyle.Width(a.width).Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	var parts []string
	if a.pending > 0 {
		parts = append(parts, a.spinner.View()+" "+MsgPending(a.pending))
	}
	if a.status != "" {
		parts = append(parts, a.statusKind.style().Render(a.status))
	}
	if commands := a.keyHandler.GetHelpForCurrentView(); len(commands) > 0 {
		parts = append(parts, strings.Join(commands, " • "))
	}

	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, " │ "))
}

type searchCompletedMsg struct {
	topic   string
	results []gallery.Result
	err     error
}

type findDebounceMsg struct {
	seq   int
	query string
}

type findResultsMsg struct {
	seq     int
	query   string
	results []*search.Result
}

type detailRenderedMsg struct {
	id      string
	content string
}

type mediaOpenedMsg struct {
	url    string
	viewer string
}

type errorMsg struct {
	err error
}
