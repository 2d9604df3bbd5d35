package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next       key.Binding
	catalog    key.Binding
	favourites key.Binding
	watchLater key.Binding
	settings   key.Binding
	favourite  key.Binding
	later      key.Binding
	remove     key.Binding
	open       key.Binding
	reload     key.Binding
	theme      key.Binding
	autoplay   key.Binding
	notify     key.Binding
	subtitles  key.Binding
	quality    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		catalog:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "catalog")),
		favourites: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favourites")),
		watchLater: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "watch later")),
		settings:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "settings")),
		favourite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favourite")),
		later:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watch later")),
		remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		open:       key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "watch")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		autoplay:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoplay")),
		notify:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		subtitles:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "subtitles")),
		quality:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "quality")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.theme, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.catalog, k.favourites, k.watchLater, k.settings},
		{k.favourite, k.later, k.remove, k.open, k.reload},
		{k.theme, k.autoplay, k.notify, k.subtitles, k.quality, k.quit},
	}
}
