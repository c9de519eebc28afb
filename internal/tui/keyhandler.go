package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/gallery"
	"github.com/pders01/gifr/internal/search"
)

const findDebounce = 150 * time.Millisecond

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	keys        keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		config:      cfg,
		modifierKey: modifierPrefix(cfg),
		keys:        newKeyMap(cfg),
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	// Any key acknowledges the last inline error.
	kh.app.err = nil

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewAddTopic:
		return kh.app.topicInput.Focused()
	case ViewFind:
		return kh.app.findInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewFind {
			if len(kh.app.findList.Items()) > 0 {
				kh.app.findInput.Blur()
				kh.app.findList.Select(0)
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddTopic:
		return kh.addTopic()

	case ViewFind:
		if items := kh.app.findList.Items(); len(items) > 0 {
			if i, ok := items[0].(findItem); ok {
				return kh.jumpToResult(i.result.Item)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

// addTopic appends the typed text to the registry and clears the input.
// Empty input is ignored without feedback.
func (kh *KeyHandler) addTopic() (tea.Model, tea.Cmd) {
	text := kh.app.topicInput.Value()
	if !kh.app.registry.Add(text) {
		return kh.app, nil
	}

	kh.app.topicInput.Reset()
	kh.app.topicInput.Blur()
	kh.app.view = ViewBrowse
	kh.app.focus = PaneTopics
	kh.app.topicList.Select(kh.app.registry.Len() - 1)
	kh.app.setStatus(MsgTopicAdded(text), StatusSuccess)

	return kh.app, kh.app.persistTopic(text)
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewAddTopic:
		kh.app.topicInput, cmd = kh.app.topicInput.Update(msg)
		return kh.app, cmd

	case ViewFind:
		prev := sanitizeSearchInput(kh.app.findInput.Value())
		kh.app.findInput, cmd = kh.app.findInput.Update(msg)

		query := sanitizeSearchInput(kh.app.findInput.Value())
		if query == prev {
			return kh.app, cmd
		}
		kh.app.findSeq++
		seq := kh.app.findSeq
		return kh.app, tea.Batch(cmd, tea.Tick(findDebounce, func(time.Time) tea.Msg {
			return findDebounceMsg{seq: seq, query: query}
		}))

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	k := kh.keys

	switch {
	case key.Matches(msg, k.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, k.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, k.Find):
		model, cmd := kh.enterFindMode()
		return model, cmd, true
	case key.Matches(msg, k.NewTopic):
		kh.enterAddTopic()
		return kh.app, textinput.Blink, true
	case key.Matches(msg, k.Help):
		kh.app.help.ShowAll = !kh.app.help.ShowAll
		kh.app.layout()
		return kh.app, nil, true
	}

	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseCustomKeys(msg)
	case ViewDetail:
		return kh.handleDetailCustomKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleBrowseCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	k := kh.keys

	switch {
	case key.Matches(msg, k.SwitchPane):
		if kh.app.focus == PaneTopics {
			kh.app.focus = PaneResults
		} else {
			kh.app.focus = PaneTopics
		}
		return kh.app, nil, true

	case key.Matches(msg, k.Toggle):
		if kh.app.focus == PaneTopics {
			topic, ok := kh.app.selectedTopic()
			if !ok {
				return kh.app, nil, true
			}
			return kh.app, kh.startSearch(topic), true
		}
		kh.toggleSelected()
		return kh.app, nil, true

	case key.Matches(msg, k.Detail):
		if kh.app.focus != PaneResults {
			return kh.app, nil, false
		}
		model, cmd := kh.openDetail()
		return model, cmd, true

	case key.Matches(msg, k.OpenMedia):
		it, ok := kh.app.selectedResult()
		if !ok || kh.app.focus != PaneResults {
			kh.app.setStatus(MsgNoSelection, StatusWarn)
			return kh.app, nil, true
		}
		return kh.app, kh.app.openMedia(it.Source()), true
	}

	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, kh.keys.OpenMedia) && kh.app.detailItem != nil {
		return kh.app, kh.app.openMedia(kh.app.detailItem.Source()), true
	}
	return kh.app, nil, false
}

// startSearch dispatches one search for topic. Searches are never
// de-duplicated; each press issues its own request.
func (kh *KeyHandler) startSearch(topic string) tea.Cmd {
	kh.app.pending++
	kh.app.setStatus(MsgSearching(topic), StatusInfo)

	cmd := kh.app.searchTopic(topic)
	if kh.app.pending == 1 {
		return tea.Batch(cmd, kh.app.spinner.Tick)
	}
	return cmd
}

// toggleSelected flips the result under the cursor between its static and
// animated rendering.
func (kh *KeyHandler) toggleSelected() {
	it, ok := kh.app.selectedResult()
	if !ok {
		kh.app.setStatus(MsgNoSelection, StatusWarn)
		return
	}

	if _, err := kh.app.feed.Toggle(it.ID); err != nil {
		kh.app.reportInternal(err)
		return
	}

	v, _ := it.Variant()
	kh.app.setStatus(fmt.Sprintf("Showing %s", strings.ToLower(v.String())), StatusInfo)
}

func (kh *KeyHandler) openDetail() (tea.Model, tea.Cmd) {
	it, ok := kh.app.selectedResult()
	if !ok {
		kh.app.setStatus(MsgNoSelection, StatusWarn)
		return kh.app, nil
	}

	r, err := kh.app.getRenderer()
	if err != nil {
		kh.app.setError(wrapErr("detail renderer", err))
		return kh.app, nil
	}

	kh.app.previousView = kh.app.view
	kh.app.view = ViewDetail
	kh.app.detailItem = it
	kh.app.loadingDetail = true

	return kh.app, kh.app.renderDetail(it.ID, detailMarkdown(it), r)
}

// jumpToResult leaves the find view and puts the cursor on it.
func (kh *KeyHandler) jumpToResult(it *gallery.Item) (tea.Model, tea.Cmd) {
	kh.resetFind()
	kh.app.view = ViewBrowse
	kh.app.focus = PaneResults
	if idx := kh.app.feed.Index(it.ID); idx >= 0 {
		kh.app.resultList.Select(idx)
	}
	return kh.app, nil
}

// delegateToCharm lets the bubbles components handle keys we don't intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewBrowse:
		if kh.app.focus == PaneTopics {
			kh.app.topicList, cmd = kh.app.topicList.Update(msg)
		} else {
			kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		}
		return kh.app, cmd

	case ViewAddTopic:
		if msg.String() == "enter" {
			return kh.addTopic()
		}
		kh.app.topicInput.Focus()
		return kh.delegateToTextInput(msg)

	case ViewFind:
		switch msg.String() {
		case "tab", "shift+tab", "/":
			kh.app.findInput.Focus()
			return kh.app, nil
		case "up":
			if kh.app.findList.Index() == 0 {
				kh.app.findInput.Focus()
				return kh.app, nil
			}
		case "enter":
			if i, ok := kh.app.findList.SelectedItem().(findItem); ok {
				return kh.jumpToResult(i.result.Item)
			}
			return kh.app, nil
		}
		kh.app.findList, cmd = kh.app.findList.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack steps out of the current view. In the browse view it first
// returns focus to the topics pane, then quits.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddTopic:
		kh.app.topicInput.Reset()
		kh.app.topicInput.Blur()
		kh.app.view = ViewBrowse
		return kh.app, nil

	case ViewFind:
		kh.resetFind()
		kh.app.view = kh.app.previousView
		if kh.app.view == ViewFind {
			kh.app.view = ViewBrowse
		}
		return kh.app, nil

	case ViewDetail:
		kh.app.view = ViewBrowse
		kh.app.detailItem = nil
		kh.app.loadingDetail = false
		return kh.app, nil

	case ViewBrowse:
		if kh.app.focus == PaneResults {
			kh.app.focus = PaneTopics
			return kh.app, nil
		}
		return kh.app, tea.Quit

	default:
		return kh.app, tea.Quit
	}
}

func (kh *KeyHandler) enterAddTopic() {
	if kh.app.view != ViewAddTopic {
		kh.app.previousView = kh.app.view
	}
	kh.resetFind()
	kh.app.view = ViewAddTopic
	kh.app.topicInput.Reset()
	kh.app.topicInput.Focus()
}

func (kh *KeyHandler) enterFindMode() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewAddTopic {
		kh.app.topicInput.Blur()
	}
	kh.app.previousView = ViewBrowse
	kh.app.view = ViewFind
	kh.resetFind()
	kh.app.findInput.Focus()

	if ds, ok := kh.app.finder.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			kh.app.setStatus(MsgFindIndex("bleve", n), StatusInfo)
			return kh.app, nil
		}
	}
	kh.app.setStatus(MsgFindIndex("scan", -1), StatusInfo)
	return kh.app, nil
}

func (kh *KeyHandler) resetFind() {
	kh.app.findSeq++
	kh.app.findInput.Reset()
	kh.app.findInput.Blur()
	kh.app.findList.SetItems([]list.Item{})
}

// maxFindQuery caps find input, counted in runes.
const maxFindQuery = 256

// sanitizeSearchInput sanitizes and limits find input length
func sanitizeSearchInput(input string) string {
	input = strings.TrimSpace(input)

	if r := []rune(input); len(r) > maxFindQuery {
		input = string(r[:maxFindQuery])
	}

	input = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(input)
	input = strings.Join(strings.Fields(input), " ")

	return input
}

// GetHelpForCurrentView returns the view-specific hints shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	hint := func(b key.Binding) string {
		h := b.Help()
		return h.Key + ": " + h.Desc
	}

	switch kh.app.view {
	case ViewBrowse:
		if kh.app.focus == PaneTopics {
			return []string{kh.app.keys.Toggle.Help().Key + ": search", hint(k.NewTopic), hint(k.SwitchPane), hint(k.Help)}
		}
		return []string{kh.app.keys.Toggle.Help().Key + ": toggle", hint(k.Detail), hint(k.OpenMedia), hint(k.Find)}

	case ViewAddTopic:
		return []string{"enter: add", "esc: cancel"}

	case ViewFind:
		return []string{"enter: jump", "esc: back"}

	case ViewDetail:
		return []string{hint(k.OpenMedia), "esc: back"}

	default:
		return []string{}
	}
}
