package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the selection view.
type KeyMap struct {
	Up, Down         key.Binding
	PrevTab, NextTab key.Binding
	PageUp, PageDown key.Binding
	Top, Bottom      key.Binding

	Toggle, All, None key.Binding

	Restore, Filter, Cancel key.Binding
	Quit, Help              key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns arrow and vi style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		PrevTab:  bind("←", "installed/backup tab", "left", "shift+tab"),
		NextTab:  bind("→", "next tab", "right", "tab"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Top:      bind("g", "first item", "home", "g"),
		Bottom:   bind("G", "last item", "end", "G"),

		Toggle: bind("space", "toggle", " ", "x"),
		All:    bind("a", "select shown", "a"),
		None:   bind("n", "clear shown", "n"),

		Restore: bind("enter", "restore", "enter"),
		Filter:  bind("/", "filter", "/"),
		Cancel:  bind("esc", "clear", "esc"),
		Quit:    bind("q", "quit", "q", "ctrl+c"),
		Help:    bind("?", "keys", "?"),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Filter, k.Restore, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.PrevTab, k.NextTab},
		{k.Toggle, k.All, k.None},
		{k.Restore, k.Filter, k.Cancel, k.Quit},
	}
}
