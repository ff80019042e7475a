package tui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/hotkeys"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/ui"
)

func twoArticles() []*storage.Article {
	return []*storage.Article{
		{ID: "a1", Title: "First Post", Description: "<p>Hello <b>world</b></p>", URL: "https://example.com/a1"},
		{ID: "a2", Title: "Second Post", Description: "Another one", URL: "https://example.com/a2"},
	}
}

func openArticleID(ta *testApp) string {
	return route.Parse(ta.app.router.Path()).ArticleID
}

func TestNextArticleOpensFirstAndMarksItRead(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)
	require.Len(t, ta.app.articleList.Items(), 2)

	ta.press("j")

	assert.Equal(t, "a1", openArticleID(ta))
	require.NotNil(t, ta.app.articles.Active())
	assert.Equal(t, "a1", ta.app.articles.Active().ID)

	stored, err := ta.db.GetArticle("a1")
	require.NoError(t, err)
	assert.True(t, stored.IsRead())

	assert.Equal(t, "a1|"+string(ta.app.articles.Active().ContentMode), ta.app.renderKey)
	assert.False(t, ta.app.loadingArticle)
}

func TestNextAndPreviousWalkTheList(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("j", "j")
	assert.Equal(t, "a2", openArticleID(ta))

	ta.press("j")
	assert.Equal(t, "a2", openArticleID(ta), "no article after the last one")

	ta.press("k")
	assert.Equal(t, "a1", openArticleID(ta))
	assert.Equal(t, 0, ta.app.articleList.Index())
}

func TestEscapeClosesArticle(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("j", "esc")

	assert.Equal(t, route.Root, ta.app.router.Path())
	assert.Nil(t, ta.app.articles.Active())
	assert.Empty(t, ta.app.renderKey)
}

func TestEnterOpensSelectedArticle(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("down", "enter")

	assert.Equal(t, "a2", openArticleID(ta))
	stored, err := ta.db.GetArticle("a2")
	require.NoError(t, err)
	assert.True(t, stored.IsRead())
}

func TestArticleMutationsOnOpenArticle(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)
	ta.press("j")

	ta.press("s")
	stored, err := ta.db.GetArticle("a1")
	require.NoError(t, err)
	assert.True(t, stored.Starred)

	ta.press("m")
	stored, err = ta.db.GetArticle("a1")
	require.NoError(t, err)
	assert.False(t, stored.IsRead())

	ta.press("g")
	stored, err = ta.db.GetArticle("a1")
	require.NoError(t, err)
	assert.Equal(t, storage.ContentOriginal, stored.ContentMode)
	assert.Equal(t, "a1|original", ta.app.renderKey)
}

func TestMutationKeysWithoutArticleDoNothing(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("m", "s")

	for _, id := range []string{"a1", "a2"} {
		stored, err := ta.db.GetArticle(id)
		require.NoError(t, err)
		assert.False(t, stored.IsRead())
		assert.False(t, stored.Starred)
	}
}

func TestOpenExternalUsesOpener(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("j", "v")

	assert.Equal(t, []string{"https://example.com/a1"}, ta.opener.opened())
}

func TestAddFeedDialogCapturesKeys(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("N")
	require.True(t, ta.app.modals.Get(ui.ModalAddFeed))
	assert.True(t, ta.app.feedInput.Focused())
	assert.Empty(t, ta.app.feedInput.Value())

	ta.press("j", "k")
	assert.Equal(t, "jk", ta.app.feedInput.Value())
	assert.Equal(t, route.Root, ta.app.router.Path())

	ta.press("tab", "x")
	assert.True(t, ta.app.categoryInput.Focused())
	assert.Equal(t, "x", ta.app.categoryInput.Value())

	ta.press("esc")
	assert.False(t, ta.app.modals.Get(ui.ModalAddFeed))
	assert.False(t, ta.app.feedInput.Focused())
	assert.False(t, ta.app.categoryInput.Focused())
}

func TestSearchDialogCapturesKeys(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("f")
	require.True(t, ta.app.modals.Get(ui.ModalSearch))
	assert.Equal(t, hotkeys.TargetInput, ta.app.focusTarget())

	ta.press("j", "m")
	assert.Equal(t, "jm", ta.app.searchInput.Value())
	assert.Equal(t, route.Root, ta.app.router.Path())

	ta.press("esc")
	assert.False(t, ta.app.modals.Get(ui.ModalSearch))
	assert.Empty(t, ta.app.searchInput.Value())
}

func TestShortcutsDialogClosesOnEscape(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)
	ta.press("j")

	ta.press("?")
	require.True(t, ta.app.modals.Get(ui.ModalShortcuts))
	assert.Contains(t, ta.app.View(), "keyboard shortcuts")

	ta.press("esc")
	assert.False(t, ta.app.modals.Get(ui.ModalShortcuts))
	assert.Equal(t, "a1", openArticleID(ta), "escape only closes the dialog")
}

func TestTabCyclesFilter(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("tab")
	assert.Equal(t, articles.FilterUnread, ta.app.articles.Filter())

	ta.press("tab")
	assert.Equal(t, articles.FilterStarred, ta.app.articles.Filter())
	assert.Empty(t, ta.app.articleList.Items())
	assert.Contains(t, ta.app.View(), MsgNoArticles)

	ta.press("tab")
	assert.Equal(t, articles.FilterAll, ta.app.articles.Filter())
	assert.Len(t, ta.app.articleList.Items(), 2)
}

func TestGalleryOpensAndEscapeClosesOnlyIt(t *testing.T) {
	ta := newTestApp(t)
	list := twoArticles()
	list[0].MediaURLs = []string{"https://example.com/1.png", "https://example.com/2.png"}
	ta.seed(list...)

	ta.press("j", "ctrl+o")
	require.True(t, ta.app.gallery.Active())
	assert.Contains(t, ta.app.View(), "1 of 2")

	ta.press("l", "enter")
	assert.Equal(t, []string{"https://example.com/2.png"}, ta.opener.opened())

	ta.press("esc")
	assert.False(t, ta.app.gallery.Active())
	assert.Equal(t, "a1", openArticleID(ta))
}

func TestGalleryWithoutMediaShowsStatus(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("j", "ctrl+o")

	assert.False(t, ta.app.gallery.Active())
	assert.Equal(t, MsgNoMedia, ta.app.status)
}

func TestRefreshShowsUnreadRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	t.Cleanup(srv.Close)

	ta := newTestApp(t)
	ta.feedURL = srv.URL + "/feed.xml"
	ta.seed(twoArticles()...)
	ta.press("j")

	ta.press("r")

	assert.Equal(t, route.Root, ta.app.router.Path())
	assert.Nil(t, ta.app.articles.Active())
	assert.Equal(t, articles.FilterUnread, ta.app.articles.Filter())
	assert.False(t, ta.app.busy)
	assert.Contains(t, ta.app.status, "Synced: 0/1 feeds")

	require.Len(t, ta.app.articleList.Items(), 1)
	item, ok := ta.app.articleList.Items()[0].(articleItem)
	require.True(t, ok)
	assert.Equal(t, "a2", item.article.ID)
}

func TestRefreshFailureStillResetsView(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)
	ta.press("j")
	require.Equal(t, "a1", openArticleID(ta))

	ta.press("r")

	assert.Equal(t, route.Root, ta.app.router.Path())
	assert.Nil(t, ta.app.articles.Active())
	assert.Equal(t, articles.FilterUnread, ta.app.articles.Filter())
	assert.False(t, ta.app.busy)
	assert.Equal(t, StatusWarn, ta.app.statusKind)
	assert.Contains(t, ta.app.status, "1 errors")
}

func TestRouteChangeSkipsLoadWhenContainerHeld(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.app.router.Navigate(route.FeedPath("f1"))
	cmd := ta.app.syncRoute()
	require.NotNil(t, cmd, "switching container loads it")
	ta.run(cmd)

	require.NoError(t, ta.app.articles.Load(ta.app.ctx, "", route.KindFeed, 1, false))
	ta.app.router.Navigate(route.Root)
	assert.Nil(t, ta.app.syncRoute(), "root is already loaded")
	assert.Equal(t, route.Root, ta.app.path)
}

func TestViewShowsSidebarAndArticles(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	view := ta.app.View()
	assert.Contains(t, view, "Example")
	assert.Contains(t, view, "First Post")
}

func TestViewWelcomesWithoutFeeds(t *testing.T) {
	ta := newTestApp(t)
	ta.run(ta.app.reloadSidebar())

	assert.Contains(t, ta.app.View(), "Press N to add your first feed")
}

func TestQuitStopsDispatcher(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(twoArticles()...)

	ta.press("q")
	ta.press("j")

	assert.Equal(t, route.Root, ta.app.router.Path())
}
