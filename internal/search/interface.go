// Package search indexes feeds and articles for the search dialog.
package search

import "github.com/pders01/skim/internal/storage"

// Searcher is the search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Result is one hit. Feed is set for feed hits and, when known, for the
// feed of an article hit.
type Result struct {
	Feed      *storage.Feed
	Article   *storage.Article
	IsArticle bool
	Score     float64
	Snippet   string
}

// Title is the display title of the hit.
func (r *Result) Title() string {
	if r.IsArticle && r.Article != nil {
		return r.Article.Title
	}
	if r.Feed != nil {
		return r.Feed.Title
	}
	return ""
}

var _ Searcher = (*Index)(nil)
