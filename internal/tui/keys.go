package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/gifr/internal/config"
)

// keyMap is built from the configured bindings and doubles as the help.KeyMap.
type keyMap struct {
	Quit       key.Binding
	Find       key.Binding
	NewTopic   key.Binding
	Toggle     key.Binding
	OpenMedia  key.Binding
	Detail     key.Binding
	SwitchPane key.Binding
	Back       key.Binding
	Help       key.Binding
}

func modifierPrefix(cfg *config.Config) string {
	if cfg.Keys.Modifier == "" {
		return ""
	}
	return cfg.Keys.Modifier + "+"
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := modifierPrefix(cfg)
	b := cfg.Keys.Bindings

	bind := func(k, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(k), key.WithHelp(k, desc))
	}

	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		Find:       bind(mod+b.Find, "find"),
		NewTopic:   bind(mod+b.NewTopic, "new topic"),
		Toggle:     bind(b.Toggle, "search / toggle"),
		OpenMedia:  bind(mod+b.OpenMedia, "open"),
		Detail:     bind(b.Detail, "details"),
		SwitchPane: bind(b.SwitchPane, "switch pane"),
		Back:       bind(b.Back, "back"),
		Help:       bind(b.Help, "help"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SwitchPane, k.NewTopic, k.Find, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Detail, k.OpenMedia},
		{k.SwitchPane, k.NewTopic, k.Find},
		{k.Back, k.Help, k.Quit},
	}
}
