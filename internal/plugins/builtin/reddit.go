// Package builtin holds the plugins registered by default.
package builtin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/skim/internal/plugins"
)

// Reddit turns subreddit and user pages into their RSS feeds.
type Reddit struct{}

func NewReddit() *Reddit { return &Reddit{} }

func (p *Reddit) Name() string  { return "reddit" }
func (p *Reddit) Priority() int { return 50 }

func (p *Reddit) CanHandle(u *url.URL) bool {
	switch strings.ToLower(u.Hostname()) {
	case "reddit.com", "www.reddit.com", "old.reddit.com":
	default:
		return false
	}
	kind, name := redditTarget(u.Path)
	return kind != "" && name != ""
}

func (p *Reddit) Resolve(_ context.Context, u *url.URL) (*plugins.FeedInfo, error) {
	kind, name := redditTarget(u.Path)
	if kind == "" {
		return nil, fmt.Errorf("reddit: no subreddit or user in %s", u.Path)
	}

	feedURL := fmt.Sprintf("https://www.reddit.com/%s/%s/.rss", kind, name)
	info := &plugins.FeedInfo{FeedURL: feedURL}
	if kind == "r" {
		info.Title = "Reddit - r/" + name
		info.Description = "Posts from r/" + name
	} else {
		info.Title = "Reddit - u/" + name
		info.Description = "Posts by u/" + name
	}
	return info, nil
}

// redditTarget extracts ("r", sub) or ("user", name) from a path.
func redditTarget(path string) (kind, name string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", ""
	}
	name = strings.TrimSuffix(parts[1], ".rss")
	switch parts[0] {
	case "r":
		return "r", name
	case "u", "user":
		return "user", name
	}
	return "", ""
}
