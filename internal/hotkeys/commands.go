package hotkeys

// Command is one entry of the closed command set.
type Command int

const (
	CmdNone Command = iota
	CmdToggleShortcuts
	CmdToggleAddFeed
	CmdOpenSearch
	CmdNextArticle
	CmdPrevArticle
	CmdToggleRead
	CmdToggleStar
	CmdRefresh
	CmdCloseArticle
	CmdOpenExternal
	CmdToggleContent
	CmdPrevSidebar
	CmdNextSidebar
	CmdToggleGroup

	commandCount
)

var commandTable = map[Key]Command{
	KeyShortcuts: CmdToggleShortcuts,
	KeyAddFeed:   CmdToggleAddFeed,
	"f":          CmdOpenSearch,
	"j":          CmdNextArticle,
	"k":          CmdPrevArticle,
	"m":          CmdToggleRead,
	"s":          CmdToggleStar,
	"r":          CmdRefresh,
	KeyEscape:    CmdCloseArticle,
	"v":          CmdOpenExternal,
	"g":          CmdToggleContent,
	"p":          CmdPrevSidebar,
	"n":          CmdNextSidebar,
	"x":          CmdToggleGroup,
}

// Lookup returns the command bound to k, or CmdNone.
func Lookup(k Key) Command {
	return commandTable[k]
}

func (c Command) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdToggleShortcuts:
		return "toggle-shortcuts"
	case CmdToggleAddFeed:
		return "toggle-add-feed"
	case CmdOpenSearch:
		return "open-search"
	case CmdNextArticle:
		return "next-article"
	case CmdPrevArticle:
		return "prev-article"
	case CmdToggleRead:
		return "toggle-read"
	case CmdToggleStar:
		return "toggle-star"
	case CmdRefresh:
		return "refresh"
	case CmdCloseArticle:
		return "close-article"
	case CmdOpenExternal:
		return "open-external"
	case CmdToggleContent:
		return "toggle-content"
	case CmdPrevSidebar:
		return "prev-sidebar"
	case CmdNextSidebar:
		return "next-sidebar"
	case CmdToggleGroup:
		return "toggle-group"
	default:
		return "unknown"
	}
}

// PreventsDefault reports whether the key's default handling is suppressed
// once the command is matched. The article commands m, s, g, v and Escape
// let the key through.
func (c Command) PreventsDefault() bool {
	switch c {
	case CmdToggleShortcuts, CmdToggleAddFeed, CmdOpenSearch,
		CmdNextArticle, CmdPrevArticle, CmdRefresh,
		CmdPrevSidebar, CmdNextSidebar, CmdToggleGroup:
		return true
	case CmdNone, CmdToggleRead, CmdToggleStar, CmdCloseArticle,
		CmdOpenExternal, CmdToggleContent:
		return false
	default:
		return false
	}
}
