package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Refresh     key.Binding
	Down        key.Binding // j: advance to next reel
	Up          key.Binding // k: retreat to previous reel
	First       key.Binding
	Last        key.Binding
	Pause       key.Binding // space: tap the active reel
	Mute        key.Binding
	Like        key.Binding
	Comments    key.Binding
	Reply       key.Binding // r: reply to selected comment
	Write       key.Binding // i: focus the comment input
	Expand      key.Binding // x: show/hide replies
	Editor      key.Binding // E: compose comment via $EDITOR
	Share       key.Binding
	Property    key.Binding // p: open linked property page
	Uploader    key.Binding
	Search      key.Binding
	NextFeed    key.Binding
	PrevFeed    key.Binding
	LoadResults key.Binding // L: load search results into the feed
	Submit      key.Binding
	Cancel      key.Binding
	ToggleHints key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Comments: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comments"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		Write: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "write"),
		),
		Expand: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "replies"),
		),
		Editor: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "write ($EDITOR)"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		Property: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "property"),
		),
		Uploader: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "uploader"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextFeed: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next feed"),
		),
		PrevFeed: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev feed"),
		),
		LoadResults: key.NewBinding(
			key.WithKeys("L", "ctrl+l"),
			key.WithHelp("L", "load into feed"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hints"),
		),
	}
}
