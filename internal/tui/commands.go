package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/hotkeys"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/ui"
)

func (a *App) reloadSidebar() tea.Cmd {
	return func() tea.Msg {
		return sidebarLoadedMsg{err: a.sidebar.Reload()}
	}
}

func (a *App) loadArticles(loc route.Location, page int, incremental bool) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return articlesLoadedMsg{err: a.articles.Load(ctx, loc.ContainerID, loc.Kind, page, incremental)}
	}
}

// loadNextPage appends the next page when the list cursor sits on the last
// loaded article.
func (a *App) loadNextPage() tea.Cmd {
	if a.loadingPage || len(a.articleList.Items()) == 0 {
		return nil
	}
	if a.articleList.Index() < len(a.articleList.Items())-1 {
		return nil
	}
	page, hasMore := a.articles.Page()
	if !hasMore {
		return nil
	}
	a.loadingPage = true
	return a.loadArticles(route.Parse(a.path), page+1, true)
}

func (a *App) renderArticle(article *storage.Article) tea.Cmd {
	key := renderKey(article)
	r, rendererErr := a.getRenderer()

	feedTitle := ""
	if f, err := a.svc.Store.GetFeed(article.FeedID); err == nil {
		feedTitle = f.Title
	}

	return func() tea.Msg {
		if rendererErr != nil {
			return articleRenderedMsg{key: key, content: "Error initializing renderer: " + rendererErr.Error()}
		}
		rendered, err := r.Render(articleMarkdown(article, feedTitle))
		if err != nil {
			debuglog.Errorf("rendering article %s: %v", article.ID, err)
			return articleRenderedMsg{key: key, content: fmt.Sprintf("Failed to render article: %s\n\nPress Escape to go back.", err)}
		}
		return articleRenderedMsg{key: key, content: rendered}
	}
}

// runTask runs the asynchronous part of a dispatched command off the event
// loop.
func (a *App) runTask(res hotkeys.Result) tea.Cmd {
	if res.Task == nil {
		return nil
	}
	ctx, task, cmd := a.ctx, res.Task, res.Command
	return func() tea.Msg {
		return taskDoneMsg{cmd: cmd, err: task(ctx)}
	}
}

func (a *App) taskDone(msg taskDoneMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.cmd == hotkeys.CmdRefresh {
		a.stopBusy()
		last := a.svc.Syncer.Last()
		docs := -1
		if counter, ok := a.svc.Search.(interface{ DocCount() (int, error) }); ok {
			if n, err := counter.DocCount(); err == nil {
				docs = n
			}
		}
		kind := StatusSuccess
		if last.Err != nil {
			kind = StatusWarn
		}
		a.setStatus(MsgSyncSummary(last.Summary, docs), kind)
		cmds = append(cmds, a.reloadSidebar())
	}
	if msg.err != nil {
		debuglog.Errorf("%s failed: %v", msg.cmd, msg.err)
		a.setError(msg.err)
	}
	cmds = append(cmds, a.sync())
	return tea.Batch(cmds...)
}

// openArticle opens art inside the container at base and marks it read.
func (a *App) openArticle(base string, art *storage.Article) tea.Cmd {
	if art == nil || art.ID == "" {
		return nil
	}
	a.router.Navigate(hotkeys.ArticlePath(base, art.ID))
	cmds := []tea.Cmd{a.sync()}
	if !art.IsRead() {
		ctx := a.ctx
		cmds = append(cmds, func() tea.Msg {
			return taskDoneMsg{cmd: hotkeys.CmdToggleRead, err: a.mutations.ToggleStatus(ctx, art)}
		})
	}
	return tea.Batch(cmds...)
}

func (a *App) cycleFilter() {
	next := a.articles.Filter().Next()
	a.articles.SetFilter(next)
	a.articleList.ResetSelected()
	a.setStatus("Showing "+string(next)+" articles", StatusInfo)
	a.refreshList()
}

func (a *App) openGallery() {
	active := a.articles.Active()
	if active == nil || route.Parse(a.path).ArticleID == "" {
		return
	}
	if !a.gallery.Open(active.MediaURLs) {
		a.setStatus(MsgNoMedia, StatusInfo)
	}
}

func (a *App) openMedia(url string) tea.Cmd {
	if url == "" || a.svc.Opener == nil {
		return nil
	}
	opener := a.svc.Opener
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening "+truncateMiddle(url, 40), err)}
		}
		return nil
	}
}

func (a *App) addFeed(rawURL, categoryTitle string) tea.Cmd {
	ctx := a.ctx
	manager := a.svc.Manager
	return func() tea.Msg {
		category, err := manager.EnsureCategory(categoryTitle)
		if err != nil {
			return feedAddedMsg{err: err}
		}
		categoryID := ""
		if category != nil {
			categoryID = category.ID
		}
		f, err := manager.AddFeed(ctx, rawURL, categoryID)
		return feedAddedMsg{feed: f, err: err}
	}
}

func (a *App) feedAdded(msg feedAddedMsg) tea.Cmd {
	a.stopBusy()
	if msg.err != nil {
		a.setError(wrapErr("adding feed", msg.err))
		return nil
	}
	a.setStatus(MsgAddedFeed(msg.feed.Title), StatusSuccess)
	a.modals.Set(ui.ModalAddFeed, false)
	return tea.Sequence(a.reloadSidebar(), func() tea.Msg {
		a.router.Navigate(route.FeedPath(msg.feed.ID))
		return nil
	})
}

func (a *App) submitAddFeed() tea.Cmd {
	rawURL := strings.TrimSpace(a.feedInput.Value())
	if rawURL == "" {
		return nil
	}
	if a.svc.Manager == nil {
		a.setError(fmt.Errorf("feed manager unavailable"))
		return nil
	}
	return tea.Batch(a.startBusy(MsgAddingFeed), a.addFeed(rawURL, a.categoryInput.Value()))
}

func (a *App) performSearch(query string) tea.Cmd {
	if a.svc.Search == nil {
		a.setStatus(MsgSearchDisabled, StatusWarn)
		return nil
	}
	if len([]rune(query)) < 2 {
		return a.searchList.SetItems(nil)
	}
	searcher := a.svc.Search
	return func() tea.Msg {
		results, err := searcher.Search(query, searchLimit)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// selectSearchResult navigates to a hit and closes the dialog.
func (a *App) selectSearchResult(item searchResultItem) tea.Cmd {
	r := item.result
	a.modals.Set(ui.ModalSearch, false)
	switch {
	case r.IsArticle && r.Article != nil:
		return a.openArticle(route.FeedPath(r.Article.FeedID), r.Article)
	case r.Feed != nil:
		a.router.Navigate(route.FeedPath(r.Feed.ID))
	}
	return a.sync()
}

func (a *App) quit() tea.Cmd {
	a.Close()
	return tea.Quit
}
