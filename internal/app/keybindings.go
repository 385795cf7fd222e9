package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/vidyasagar/bpexplorer/internal/ui"
)

// KeyMap defines all keybindings for bpexplorer.
type KeyMap struct {
	// Cursor
	Down         key.Binding
	Up           key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding

	// History
	Back    key.Binding
	Forward key.Binding
	First   key.Binding
	Last    key.Binding

	// Fields and references
	Select         key.Binding
	FollowLink     key.Binding
	FollowNewTab   key.Binding
	Filter         key.Binding
	FilterToCursor key.Binding
	ClearFilter    key.Binding
	OpenExternally key.Binding
	ToggleFocus    key.Binding

	// Tabs
	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	// Modes
	CommandMode key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "next row"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "previous row"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "first row"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last row"),
		),
		Back: key.NewBinding(
			key.WithKeys("H", "alt+left"),
			key.WithHelp("H", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("L", "alt+right"),
			key.WithHelp("L", "forward"),
		),
		First: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "first in history"),
		),
		Last: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "last in history"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open row"),
		),
		FollowLink: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow link #"),
		),
		FollowNewTab: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "follow link # in new tab"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter fields"),
		),
		FilterToCursor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "filter to row path"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		OpenExternally: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "open in editor"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "fields / references"),
		),
		NewTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("gt", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("gT", "previous tab"),
		),
		CommandMode: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
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

// HelpGroups lists the bindings for the help panel.
func (k KeyMap) HelpGroups() []ui.HelpGroup {
	group := func(name string, bindings ...key.Binding) ui.HelpGroup {
		g := ui.HelpGroup{Name: name}
		for _, b := range bindings {
			h := b.Help()
			g.Bindings = append(g.Bindings, ui.HelpBinding{Key: h.Key, Desc: h.Desc})
		}
		return g
	}
	return []ui.HelpGroup{
		group("History", k.Back, k.Forward, k.First, k.Last),
		group("Rows", k.Down, k.Up, k.HalfPageDown, k.HalfPageUp, k.GotoTop, k.GotoBottom, k.Select, k.ToggleFocus),
		group("Fields", k.FollowLink, k.FollowNewTab, k.Filter, k.FilterToCursor, k.ClearFilter, k.OpenExternally),
		{
			Name: "Tabs & commands",
			Bindings: []ui.HelpBinding{
				{Key: k.NewTab.Help().Key, Desc: k.NewTab.Help().Desc},
				{Key: k.CloseTab.Help().Key, Desc: k.CloseTab.Help().Desc},
				{Key: k.NextTab.Help().Key, Desc: k.NextTab.Help().Desc},
				{Key: k.PrevTab.Help().Key, Desc: k.PrevTab.Help().Desc},
				{Key: ":open <name>", Desc: "find by name"},
				{Key: ":goto <guid>", Desc: "open by identifier"},
				{Key: ":recent", Desc: "recently shown"},
				{Key: ":refs", Desc: "back-references"},
				{Key: ":theme <n>", Desc: "change theme"},
				{Key: k.Quit.Help().Key, Desc: k.Quit.Help().Desc},
			},
		},
	}
}
