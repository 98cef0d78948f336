package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the picker's [key.Binding] set. Navigation is left to the list.
type keyMap struct {
	toggle key.Binding
	all    key.Binding
	enter  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle")),
		all:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.all, k.enter, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
