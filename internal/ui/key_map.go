package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the player TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	play     key.Binding
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	seekBack key.Binding
	seekFwd  key.Binding
	volUp    key.Binding
	volDown  key.Binding
	mute     key.Binding
	shuffle  key.Binding
	repeat   key.Binding
	remove   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		seekBack: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "seek -5s")),
		seekFwd:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "seek +5s")),
		volUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		mute:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.previous, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.remove},
		{k.toggle, k.next, k.previous, k.seekBack, k.seekFwd},
		{k.volUp, k.volDown, k.mute, k.shuffle, k.repeat},
		{k.quit},
	}
}
