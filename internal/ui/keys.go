package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search key.Binding
	Submit key.Binding
	Cancel key.Binding
	Up     key.Binding
	Down   key.Binding
	Scope  key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search / open")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "recent")),
		Up:     key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Scope:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "beer/brewery")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Submit, k.Cancel, k.Scope, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Submit, k.Cancel},
		{k.Up, k.Down},
		{k.Scope, k.Theme},
		{k.Help, k.Quit},
	}
}
