package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle     key.Binding
	next       key.Binding
	previous   key.Binding
	volumeUp   key.Binding
	volumeDown key.Binding
	play       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		volumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "vol up")),
		volumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "vol down")),
		play:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play playlist")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.previous, k.volumeUp, k.volumeDown, k.play, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.next, k.previous},
		{k.volumeUp, k.volumeDown},
		{k.play, k.quit},
	}
}
