package hotkeys

import "github.com/charmbracelet/bubbles/key"

// KeyMap describes the fixed table for the help views. It does not drive
// dispatch.
type KeyMap struct {
	Search        key.Binding
	Next          key.Binding
	Prev          key.Binding
	ToggleRead    key.Binding
	ToggleStar    key.Binding
	Refresh       key.Binding
	Close         key.Binding
	OpenExternal  key.Binding
	ToggleContent key.Binding
	PrevFeed      key.Binding
	NextFeed      key.Binding
	ToggleGroup   key.Binding
	AddFeed       key.Binding
	Shortcuts     key.Binding
	Gallery       key.Binding
	Filter        key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "search")),
		Next:          key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next article")),
		Prev:          key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "previous article")),
		ToggleRead:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle read")),
		ToggleStar:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle star")),
		Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sync and show unread")),
		Close:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close article")),
		OpenExternal:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "open in browser")),
		ToggleContent: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "original/summary")),
		PrevFeed:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous feed")),
		NextFeed:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next feed")),
		ToggleGroup:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "expand/collapse group")),
		AddFeed:       key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "add feed")),
		Shortcuts:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "shortcuts")),
		Gallery:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "media gallery")),
		Filter:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle filter")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Binding returns the help binding of a command.
func (k KeyMap) Binding(c Command) (key.Binding, bool) {
	switch c {
	case CmdToggleShortcuts:
		return k.Shortcuts, true
	case CmdToggleAddFeed:
		return k.AddFeed, true
	case CmdOpenSearch:
		return k.Search, true
	case CmdNextArticle:
		return k.Next, true
	case CmdPrevArticle:
		return k.Prev, true
	case CmdToggleRead:
		return k.ToggleRead, true
	case CmdToggleStar:
		return k.ToggleStar, true
	case CmdRefresh:
		return k.Refresh, true
	case CmdCloseArticle:
		return k.Close, true
	case CmdOpenExternal:
		return k.OpenExternal, true
	case CmdToggleContent:
		return k.ToggleContent, true
	case CmdPrevSidebar:
		return k.PrevFeed, true
	case CmdNextSidebar:
		return k.NextFeed, true
	case CmdToggleGroup:
		return k.ToggleGroup, true
	default:
		return key.Binding{}, false
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ToggleRead, k.Search, k.Refresh, k.Shortcuts, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Close, k.OpenExternal, k.ToggleContent, k.Gallery},
		{k.ToggleRead, k.ToggleStar, k.Refresh, k.Filter},
		{k.PrevFeed, k.NextFeed, k.ToggleGroup},
		{k.Search, k.AddFeed, k.Shortcuts, k.Quit},
	}
}
