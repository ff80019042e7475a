package tui

import (
	"fmt"
	"html"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/storage"
)

var strictPolicy = bluemonday.StrictPolicy()

// summaryText reduces summary HTML to a single line of plain text.
func summaryText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// originalMarkdown converts full article HTML to markdown, falling back to
// plain text when conversion fails.
func originalMarkdown(body string) string {
	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		debuglog.Warnf("converting article html: %v", err)
		return summaryText(body)
	}
	return md
}

// renderKey identifies one rendering of an article.
func renderKey(a *storage.Article) string {
	if a == nil {
		return ""
	}
	return a.ID + "|" + string(a.ContentMode)
}

// articleMarkdown builds the reader document. Original mode shows the full
// content; summary mode shows the plain-text description.
func articleMarkdown(a *storage.Article, feedTitle string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)

	var meta []string
	if feedTitle != "" {
		meta = append(meta, feedTitle)
	}
	if !a.Published.IsZero() {
		meta = append(meta, a.Published.Format(time.RFC1123))
	}
	mode := "summary"
	if a.ContentMode == storage.ContentOriginal {
		mode = "original"
	}
	meta = append(meta, mode)
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))

	if a.URL != "" {
		fmt.Fprintf(&b, "[Read Online](%s)\n\n", a.URL)
	}

	if len(a.MediaURLs) > 0 {
		fmt.Fprintf(&b, "**Media:** %d item(s), ctrl+o to browse\n\n", len(a.MediaURLs))
	}

	b.WriteString("---\n\n")

	switch {
	case a.ContentMode == storage.ContentOriginal && a.Content != "":
		b.WriteString(originalMarkdown(a.Content))
	case a.Description != "":
		b.WriteString(summaryText(a.Description))
	default:
		b.WriteString(summaryText(a.Content))
	}
	b.WriteString("\n")
	return b.String()
}
