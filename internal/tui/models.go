package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/skim/internal/hotkeys"
	"github.com/pders01/skim/internal/search"
	"github.com/pders01/skim/internal/storage"
)

type articleItem struct {
	article *storage.Article
}

func (i articleItem) Title() string {
	title := i.article.Title
	if title == "" {
		title = "(untitled)"
	}
	if i.article.Starred {
		title = StarStyle.Render("★ ") + title
	}
	if i.article.IsRead() {
		return ReadItemStyle.Render(title)
	}
	return UnreadItemStyle.Render("● " + title)
}

func (i articleItem) Description() string {
	desc := truncateEnd(summaryText(i.article.Description), 80)

	timeStr := ""
	if !i.article.Published.IsZero() {
		timeStr = TimeStyle.Render(" • " + i.article.Published.Format("Jan 2, 15:04"))
	}

	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(desc) + timeStr
}

func (i articleItem) FilterValue() string { return i.article.Title }

type searchResultItem struct {
	result *search.Result
}

func (i searchResultItem) Title() string {
	if i.result.IsArticle {
		return "📄 " + i.result.Title()
	}
	return lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true).
		Render("📁 " + i.result.Title())
}

func (i searchResultItem) Description() string {
	desc := i.result.Snippet
	if i.result.IsArticle && i.result.Feed != nil {
		from := i.result.Feed.Title
		if from == "" {
			from = i.result.Feed.URL
		}
		desc += " • from " + from
	}
	if !i.result.IsArticle && i.result.Feed != nil && desc == "" {
		desc = i.result.Feed.URL
	}
	return renderMuted(truncateEnd(desc, 100))
}

func (i searchResultItem) FilterValue() string { return i.result.Title() }

// changedMsg reports that the router or the article store changed.
type changedMsg struct{}

type articlesLoadedMsg struct {
	err error
}

type articleRenderedMsg struct {
	key     string
	content string
}

type sidebarLoadedMsg struct {
	err error
}

// taskDoneMsg carries the outcome of a dispatcher task.
type taskDoneMsg struct {
	cmd hotkeys.Command
	err error
}

type feedAddedMsg struct {
	feed *storage.Feed
	err  error
}

type searchDebounceMsg struct {
	seq int
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
	err     error
}

type errorMsg struct {
	err error
}
