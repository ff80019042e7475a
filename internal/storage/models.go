package storage

import (
	"time"
)

// Status is the read state of an article.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusRead {
		return StatusUnread
	}
	return StatusRead
}

// ContentMode selects which body the reader renders for an article.
type ContentMode string

const (
	ContentSummary  ContentMode = "summary"
	ContentOriginal ContentMode = "original"
)

func (m ContentMode) Toggle() ContentMode {
	if m == ContentOriginal {
		return ContentSummary
	}
	return ContentOriginal
}

type Category struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type Feed struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category_id,omitempty"`
	LastFetched  time.Time `json:"last_fetched"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Article struct {
	ID          string      `json:"id"`
	FeedID      string      `json:"feed_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	URL         string      `json:"url"`
	Published   time.Time   `json:"published"`
	Updated     time.Time   `json:"updated"`
	Status      Status      `json:"status"`
	Starred     bool        `json:"starred"`
	ContentMode ContentMode `json:"content_mode"`
	MediaURLs   []string    `json:"media_urls"`
}

// IsRead reports whether the article has been read. Articles saved before
// a status was assigned count as unread.
func (a *Article) IsRead() bool {
	return a.Status == StatusRead
}

// ArticleQuery selects a page of articles, newest first. An empty FeedIDs
// matches every feed.
type ArticleQuery struct {
	FeedIDs []string
	Offset  int
	Limit   int
}
