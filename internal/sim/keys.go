package sim

import "github.com/charmbracelet/bubbles/key"

// keyMap binds simulator actions. The digits mirror the layout kinds'
// declaration order.
type keyMap struct {
	Browsing    key.Binding
	TabSwitcher key.Binding
	Overlay     key.Binding
	Contextual  key.Binding

	Transient  key.Binding
	Pin        key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding
	Hide       key.Binding
	Video      key.Binding
	SwipeLeft  key.Binding
	SwipeRight key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Browsing: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "browsing"),
		),
		TabSwitcher: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "tab switcher"),
		),
		Overlay: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "overlay"),
		),
		Contextual: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "contextual overlay"),
		),
		Transient: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transient show"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin chrome"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "scroll up"),
		),
		Hide: key.NewBinding(
			key.WithKeys("h", "esc"),
			key.WithHelp("h", "hide layout"),
		),
		Video: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "overlay video"),
		),
		SwipeLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "swipe left"),
		),
		SwipeRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "swipe right"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Browsing, k.TabSwitcher, k.Overlay, k.Contextual, k.Transient, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Browsing, k.TabSwitcher, k.Overlay, k.Contextual},
		{k.Transient, k.Pin, k.ScrollDown, k.ScrollUp},
		{k.Hide, k.Video, k.SwipeLeft, k.SwipeRight},
		{k.Help, k.Quit},
	}
}
