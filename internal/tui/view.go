package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/sidebar"
	"github.com/pders01/skim/internal/ui"
)

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	bodyHeight := max(1, a.height-statusBarHeight)

	var body string
	if top, ok := a.modals.Top(); ok {
		body = renderCentered(a.width, bodyHeight, a.modalView(top))
	} else {
		main := a.mainView(bodyHeight)
		if a.width >= sidebarWidth*2 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebarView(bodyHeight), main)
		} else {
			body = main
		}
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(0, a.width)))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		separator,
		a.statusView(),
	)
}

func (a *App) mainView(height int) string {
	width := a.mainWidth()

	if a.gallery.Active() {
		return a.galleryView(width, height)
	}

	if route.Parse(a.path).ArticleID != "" {
		if a.loadingArticle {
			return renderCentered(width, height, renderMuted(MsgLoadingArticle))
		}
		return a.viewport.View()
	}

	if len(a.articleList.Items()) == 0 {
		if len(a.sidebar.Entries()) <= 1 {
			return renderCentered(width, height, GetWelcomeMessage())
		}
		if a.articles.Filter() == articles.FilterUnread {
			return renderCentered(width, height, renderMuted(MsgNoArticlesUnread))
		}
		return renderCentered(width, height, renderMuted(MsgNoArticles))
	}
	return a.articleList.View()
}

func (a *App) sidebarView(height int) string {
	entries := a.sidebar.Entries()
	current := a.sidebar.Current()

	rows := []string{HeaderStyle.Render(CompactLogo), ""}
	for i, e := range entries {
		label := strings.Repeat("  ", e.Indent())
		if e.Kind == sidebar.EntryCategory {
			if e.Collapsed {
				label += "▸ "
			} else {
				label += "▾ "
			}
		}
		label = truncateEnd(label+e.Title, sidebarWidth-2)
		if i == current {
			rows = append(rows, SelectedItemStyle.Render(label))
		} else {
			rows = append(rows, label)
		}
	}

	return SidebarStyle.
		Width(sidebarWidth).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) galleryView(width, height int) string {
	urls := a.gallery.URLs()
	_, selected := a.gallery.Selected()

	rows := []string{renderHeader("› media", fmt.Sprintf("%d of %d", selected+1, len(urls)), width), ""}
	for i, u := range urls {
		line := truncateMiddle(u, width-4)
		if i == selected {
			line = SelectedItemStyle.Render(line)
		}
		rows = append(rows, line)
	}
	rows = append(rows, "", renderHelp("←/→: select • enter: open • esc: close"))
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a *App) modalView(m ui.Modal) string {
	switch m {
	case ui.ModalSearch:
		hint := "Type to search • ↑↓: results • Enter: open • Esc: close"
		return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			HeaderStyle.Render("› search"),
			"",
			renderInputFrame(a.searchInput.View(), true, a.searchInput.Width),
			renderMuted(hint),
			"",
			a.searchList.View(),
		))

	case ui.ModalAddFeed:
		return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			HeaderStyle.Render("› add feed"),
			"",
			renderInputFrame(a.feedInput.View(), a.feedInput.Focused(), a.feedInput.Width),
			renderInputFrame(a.categoryInput.View(), a.categoryInput.Focused(), a.categoryInput.Width),
			"",
			renderHelp("Enter: add • Tab: next field • Esc: cancel"),
		))

	case ui.ModalShortcuts:
		return ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			HeaderStyle.Render("› keyboard shortcuts"),
			"",
			a.help.FullHelpView(a.keys.FullHelp()),
			"",
			renderHelp("?: close"),
		))
	}
	return ""
}

func (a *App) statusView() string {
	style := lipgloss.NewStyle().Width(a.width).Padding(0, 1).MaxHeight(1)

	switch {
	case a.busy:
		return style.Render(a.spinner.View() + " " + statusStyle(a.statusKind)(a.status))
	case a.status != "":
		return style.Render(statusStyle(a.statusKind)(truncateEnd(a.status, a.width-2)))
	default:
		return style.Render(a.help.ShortHelpView(a.keys.ShortHelp()))
	}
}
