package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/skim/internal/feed"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgSyncing          = "Syncing…"
	MsgAddingFeed       = "Adding feed…"
	MsgLoadingArticle   = "Loading article…"
	MsgNoResults        = "No results"
	MsgNoMedia          = "No media in this article"
	MsgSearchDisabled   = "Search index unavailable"
	MsgNoArticles       = "No articles"
	MsgNoArticlesUnread = "No unread articles"
)

func MsgAddedFeed(title string) string {
	return fmt.Sprintf("Added feed '%s'", strings.TrimSpace(title))
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgSyncSummary describes a finished sync. A negative docCount omits the
// index size.
func MsgSyncSummary(s feed.RefreshSummary, docCount int) string {
	base := fmt.Sprintf("Synced: %d/%d feeds • %d articles", s.Updated, s.Feeds, s.Articles)
	if s.Errors > 0 {
		base += fmt.Sprintf(" • %d errors", s.Errors)
	}
	if docCount >= 0 {
		base += fmt.Sprintf(" • idx: %d docs", docCount)
	}
	return base
}

func statusStyle(kind StatusKind) func(...string) string {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle.Render
	case StatusWarn:
		return StatusWarnStyle.Render
	case StatusError:
		return StatusErrorStyle.Render
	default:
		return StatusInfoStyle.Render
	}
}
