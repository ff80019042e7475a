// Package plugins resolves site URLs people paste, such as a subreddit or
// a repository page, to the feed URL behind them.
package plugins

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// FeedInfo is what a plugin knows about a feed before it is fetched.
type FeedInfo struct {
	// OriginalURL is the URL as entered.
	OriginalURL string
	// FeedURL is the URL to fetch.
	FeedURL string
	// Title and Description are fallbacks for feeds that carry none.
	Title       string
	Description string
	// Plugin names the plugin that resolved the URL, or "" for none.
	Plugin string
}

// Plugin handles the URLs of one site.
type Plugin interface {
	Name() string
	// CanHandle reports whether u belongs to the plugin's site.
	CanHandle(u *url.URL) bool
	Resolve(ctx context.Context, u *url.URL) (*FeedInfo, error)
	// Priority orders plugins that can handle the same URL; higher wins.
	Priority() int
}

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
}

func NewRegistry(plugins ...Plugin) *Registry {
	return &Registry{plugins: plugins}
}

func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
}

// Find returns the highest-priority plugin that handles rawURL, or nil.
func (r *Registry) Find(rawURL string) Plugin {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil
	}
	return r.find(u)
}

func (r *Registry) find(u *url.URL) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Plugin
	for _, p := range r.plugins {
		if p.CanHandle(u) && (best == nil || p.Priority() > best.Priority()) {
			best = p
		}
	}
	return best
}

// Resolve maps rawURL to the feed to fetch. URLs no plugin handles pass
// through unchanged. A nil registry resolves nothing.
func (r *Registry) Resolve(ctx context.Context, rawURL string) (*FeedInfo, error) {
	rawURL = strings.TrimSpace(rawURL)
	passthrough := &FeedInfo{OriginalURL: rawURL, FeedURL: rawURL}
	if r == nil {
		return passthrough, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return passthrough, nil
	}
	p := r.find(u)
	if p == nil {
		return passthrough, nil
	}

	info, err := p.Resolve(ctx, u)
	if err != nil {
		return nil, err
	}
	info.OriginalURL = rawURL
	info.Plugin = p.Name()
	return info, nil
}

// List returns the registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Plugin(nil), r.plugins...)
}
