// Package route models the application's navigation paths and holds the
// current location.
package route

import (
	"strings"
	"sync"
)

// Kind is the container a path is scoped to.
type Kind string

const (
	KindRoot     Kind = "root"
	KindFeed     Kind = "feed"
	KindCategory Kind = "category"
)

const (
	Root           = "/"
	feedPrefix     = "/feed/"
	categoryPrefix = "/category/"
	articleSegment = "/article/"
)

// Location is a parsed path.
type Location struct {
	Kind        Kind
	ContainerID string
	ArticleID   string
}

// Parse splits a path such as /feed/7/article/99 into its container and
// article parts. Unknown paths parse as root.
func Parse(path string) Location {
	loc := Location{Kind: KindRoot}

	container := path
	if i := strings.Index(path, articleSegment); i >= 0 {
		loc.ArticleID = strings.Trim(path[i+len(articleSegment):], "/")
		container = path[:i]
	}

	switch {
	case strings.HasPrefix(container, feedPrefix):
		loc.Kind = KindFeed
		loc.ContainerID = strings.Trim(container[len(feedPrefix):], "/")
	case strings.HasPrefix(container, categoryPrefix):
		loc.Kind = KindCategory
		loc.ContainerID = strings.Trim(container[len(categoryPrefix):], "/")
	}
	return loc
}

// FeedPath returns the path of a feed's article list.
func FeedPath(id string) string { return feedPrefix + id }

// CategoryPath returns the path of a category's article list.
func CategoryPath(id string) string { return categoryPrefix + id }

// Router holds the current path and notifies subscribers on navigation.
type Router struct {
	mu        sync.RWMutex
	path      string
	listeners []func(Location)
}

func NewRouter() *Router {
	return &Router{path: Root}
}

func (r *Router) Path() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

// Navigate sets the current path and calls every listener with the parsed
// location. Listeners run on the caller's goroutine after the lock is
// released, so they may read the router.
func (r *Router) Navigate(path string) {
	if path == "" {
		path = Root
	}

	r.mu.Lock()
	r.path = path
	listeners := make([]func(Location), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	loc := Parse(path)
	for _, fn := range listeners {
		fn(loc)
	}
}

// Subscribe registers fn for every subsequent navigation.
func (r *Router) Subscribe(fn func(Location)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
