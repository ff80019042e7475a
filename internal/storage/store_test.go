package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGetFeed(t *testing.T) {
	store := setupTestStore(t)

	feed := &Feed{
		ID:           "test-feed-1",
		URL:          "http://example.com/feed.xml",
		Title:        "Test Feed",
		CategoryID:   "cat-1",
		ETag:         "\"abc123\"",
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
	}

	if err := store.SaveFeed(feed); err != nil {
		t.Fatalf("failed to save feed: %v", err)
	}

	retrieved, err := store.GetFeed("test-feed-1")
	if err != nil {
		t.Fatalf("failed to get feed: %v", err)
	}
	if retrieved.URL != feed.URL {
		t.Errorf("expected URL %s, got %s", feed.URL, retrieved.URL)
	}
	if retrieved.CategoryID != "cat-1" {
		t.Errorf("expected category cat-1, got %s", retrieved.CategoryID)
	}
	if retrieved.ETag != feed.ETag {
		t.Errorf("expected ETag %s, got %s", feed.ETag, retrieved.ETag)
	}
}

func TestStore_GetFeed_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetFeed("non-existent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetAllFeeds_SortedByTitle(t *testing.T) {
	store := setupTestStore(t)

	for _, f := range []*Feed{
		{ID: "b", URL: "http://b.example.com", Title: "beta"},
		{ID: "a", URL: "http://a.example.com", Title: "Alpha"},
		{ID: "c", URL: "http://c.example.com"},
	} {
		if err := store.SaveFeed(f); err != nil {
			t.Fatalf("failed to save feed: %v", err)
		}
	}

	feeds, err := store.GetAllFeeds()
	if err != nil {
		t.Fatalf("failed to get feeds: %v", err)
	}
	got := []string{feeds[0].ID, feeds[1].ID, feeds[2].ID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestStore_FeedIDsInCategory(t *testing.T) {
	store := setupTestStore(t)

	for _, f := range []*Feed{
		{ID: "f1", Title: "One", CategoryID: "news"},
		{ID: "f2", Title: "Two", CategoryID: "tech"},
		{ID: "f3", Title: "Three", CategoryID: "news"},
	} {
		if err := store.SaveFeed(f); err != nil {
			t.Fatalf("failed to save feed: %v", err)
		}
	}

	ids, err := store.FeedIDsInCategory("news")
	if err != nil {
		t.Fatalf("failed to list category feeds: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 feeds in category, got %d", len(ids))
	}
}

func TestStore_Categories_Ordered(t *testing.T) {
	store := setupTestStore(t)

	for _, c := range []*Category{
		{ID: "2", Title: "Second", Position: 2},
		{ID: "1", Title: "First", Position: 1},
	} {
		if err := store.SaveCategory(c); err != nil {
			t.Fatalf("failed to save category: %v", err)
		}
	}

	cats, err := store.GetAllCategories()
	if err != nil {
		t.Fatalf("failed to get categories: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != "1" || cats[1].ID != "2" {
		t.Fatalf("unexpected category order: %+v", cats)
	}
}

func TestStore_SaveArticles_DefaultsAndPreservesUserState(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveArticles([]*Article{{ID: "a1", FeedID: "f1", Title: "Original"}}); err != nil {
		t.Fatalf("failed to save article: %v", err)
	}

	a, err := store.GetArticle("a1")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if a.Status != StatusUnread {
		t.Errorf("expected new article to be unread, got %q", a.Status)
	}
	if a.ContentMode != ContentSummary {
		t.Errorf("expected summary mode by default, got %q", a.ContentMode)
	}

	if _, err := store.SetArticleStatus("a1", StatusRead); err != nil {
		t.Fatalf("failed to set status: %v", err)
	}
	if _, err := store.SetArticleStarred("a1", true); err != nil {
		t.Fatalf("failed to star: %v", err)
	}

	// A re-fetch carries fresh feed data but no user state.
	if err := store.SaveArticles([]*Article{{ID: "a1", FeedID: "f1", Title: "Updated"}}); err != nil {
		t.Fatalf("failed to re-save article: %v", err)
	}

	a, err = store.GetArticle("a1")
	if err != nil {
		t.Fatalf("failed to get article: %v", err)
	}
	if a.Title != "Updated" {
		t.Errorf("expected title to be refreshed, got %q", a.Title)
	}
	if !a.IsRead() || !a.Starred {
		t.Errorf("user state lost on re-fetch: %+v", a)
	}
}

func TestStore_ListArticles(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now()
	articles := make([]*Article, 0, 12)
	for i := 0; i < 10; i++ {
		articles = append(articles, &Article{
			ID:        fmt.Sprintf("f1-%d", i),
			FeedID:    "feed1",
			Published: now.Add(time.Duration(-i) * time.Hour),
		})
	}
	articles = append(articles,
		&Article{ID: "f2-0", FeedID: "feed2", Published: now.Add(30 * time.Minute)},
		&Article{ID: "f3-0", FeedID: "feed3", Published: now.Add(-30 * time.Minute)},
	)
	if err := store.SaveArticles(articles); err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}

	all, err := store.ListArticles(ArticleQuery{})
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(all) != 12 {
		t.Fatalf("expected 12 articles, got %d", len(all))
	}
	if all[0].ID != "f2-0" {
		t.Errorf("expected newest article first, got %s", all[0].ID)
	}

	scoped, err := store.ListArticles(ArticleQuery{FeedIDs: []string{"feed2", "feed3"}})
	if err != nil {
		t.Fatalf("failed to list scoped articles: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("expected 2 scoped articles, got %d", len(scoped))
	}

	page, err := store.ListArticles(ArticleQuery{FeedIDs: []string{"feed1"}, Offset: 5, Limit: 3})
	if err != nil {
		t.Fatalf("failed to list page: %v", err)
	}
	if len(page) != 3 || page[0].ID != "f1-5" {
		t.Errorf("unexpected page: %d items, first %v", len(page), page)
	}

	past, err := store.ListArticles(ArticleQuery{Offset: 100})
	if err != nil {
		t.Fatalf("failed to list past end: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(past))
	}
}

func TestStore_SetArticleContentMode(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveArticles([]*Article{{ID: "a1", FeedID: "f1"}}); err != nil {
		t.Fatalf("failed to save article: %v", err)
	}

	a, err := store.SetArticleContentMode("a1", ContentOriginal)
	if err != nil {
		t.Fatalf("failed to set content mode: %v", err)
	}
	if a.ContentMode != ContentOriginal {
		t.Errorf("expected original mode, got %q", a.ContentMode)
	}

	if _, err := store.SetArticleContentMode("missing", ContentOriginal); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing article, got %v", err)
	}
}

func TestStore_DeleteFeed(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveFeed(&Feed{ID: "feed-to-delete", Title: "Feed to Delete"}); err != nil {
		t.Fatalf("failed to save feed: %v", err)
	}
	err := store.SaveArticles([]*Article{
		{ID: "article1", FeedID: "feed-to-delete"},
		{ID: "article2", FeedID: "feed-to-delete"},
		{ID: "article3", FeedID: "other-feed"},
	})
	if err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}

	if err := store.DeleteFeed("feed-to-delete"); err != nil {
		t.Fatalf("failed to delete feed: %v", err)
	}

	if _, err := store.GetFeed("feed-to-delete"); err == nil {
		t.Error("expected error when getting deleted feed")
	}

	remaining, err := store.ListArticles(ArticleQuery{})
	if err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(remaining) != 1 || remaining[0].FeedID != "other-feed" {
		t.Errorf("wrong articles remained after feed deletion: %v", remaining)
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusUnread.Toggle() != StatusRead || StatusRead.Toggle() != StatusUnread {
		t.Error("status toggle is not symmetric")
	}
	if Status("").Toggle() != StatusRead {
		t.Error("empty status should toggle to read")
	}
	if ContentSummary.Toggle() != ContentOriginal || ContentOriginal.Toggle() != ContentSummary {
		t.Error("content mode toggle is not symmetric")
	}
}
