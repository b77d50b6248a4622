package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	next     key.Binding
	prev     key.Binding
	contents key.Binding
	theme    key.Binding
	fontUp   key.Binding
	fontDown key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:     key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→/l", "next page")),
		prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		contents: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "contents")),
		theme:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "theme")),
		fontUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "font up")),
		fontDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "font down")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.next, k.prev, k.contents},
		{k.theme, k.fontUp, k.fontDown},
		{k.back, k.quit},
	}
}
