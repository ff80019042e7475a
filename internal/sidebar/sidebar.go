// Package sidebar keeps the ordered feed tree shown on the left of the TUI
// and moves the current location through it.
package sidebar

import (
	"fmt"
	"sync"

	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
)

type EntryKind int

const (
	EntryAll EntryKind = iota
	EntryCategory
	EntryFeed
)

// Entry is one visible sidebar row.
type Entry struct {
	Kind       EntryKind
	ID         string
	Title      string
	CategoryID string
	Collapsed  bool
}

// Path is the location an entry navigates to.
func (e Entry) Path() string {
	switch e.Kind {
	case EntryCategory:
		return route.CategoryPath(e.ID)
	case EntryFeed:
		return route.FeedPath(e.ID)
	default:
		return route.Root
	}
}

// Indent is the nesting depth used when rendering.
func (e Entry) Indent() int {
	if e.Kind == EntryFeed && e.CategoryID != "" {
		return 1
	}
	return 0
}

// Source provides the tree contents.
type Source interface {
	GetAllCategories() ([]*storage.Category, error)
	GetAllFeeds() ([]*storage.Feed, error)
}

// Router is the part of the router the sidebar drives.
type Router interface {
	Path() string
	Navigate(path string)
}

type Sidebar struct {
	source Source
	router Router

	mu         sync.RWMutex
	categories []*storage.Category
	feeds      []*storage.Feed
	collapsed  map[string]bool
}

func New(source Source, router Router) *Sidebar {
	return &Sidebar{
		source:    source,
		router:    router,
		collapsed: make(map[string]bool),
	}
}

// Reload rereads categories and feeds. Collapse state survives.
func (s *Sidebar) Reload() error {
	categories, err := s.source.GetAllCategories()
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}
	feeds, err := s.source.GetAllFeeds()
	if err != nil {
		return fmt.Errorf("loading feeds: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
	s.feeds = feeds
	return nil
}

// Entries returns the visible rows: the all-articles row, each category
// followed by its feeds unless collapsed, then feeds without a category.
// Feeds pointing at an unknown category count as uncategorized.
func (s *Sidebar) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entriesLocked()
}

func (s *Sidebar) entriesLocked() []Entry {
	byCategory := make(map[string][]*storage.Feed)
	known := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		known[c.ID] = true
	}
	var loose []*storage.Feed
	for _, f := range s.feeds {
		if f.CategoryID != "" && known[f.CategoryID] {
			byCategory[f.CategoryID] = append(byCategory[f.CategoryID], f)
		} else {
			loose = append(loose, f)
		}
	}

	entries := []Entry{{Kind: EntryAll, Title: "All articles"}}
	for _, c := range s.categories {
		collapsed := s.collapsed[c.ID]
		entries = append(entries, Entry{Kind: EntryCategory, ID: c.ID, Title: c.Title, Collapsed: collapsed})
		if collapsed {
			continue
		}
		for _, f := range byCategory[c.ID] {
			entries = append(entries, feedEntry(f, c.ID))
		}
	}
	for _, f := range loose {
		entries = append(entries, feedEntry(f, ""))
	}
	return entries
}

func feedEntry(f *storage.Feed, categoryID string) Entry {
	title := f.Title
	if title == "" {
		title = f.URL
	}
	return Entry{Kind: EntryFeed, ID: f.ID, Title: title, CategoryID: categoryID}
}

// Current returns the index of the row matching the router's location, or
// -1. A feed inside a collapsed category resolves to the category row.
func (s *Sidebar) Current() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked(s.entriesLocked())
}

func (s *Sidebar) currentLocked(entries []Entry) int {
	loc := route.Parse(s.router.Path())
	switch loc.Kind {
	case route.KindRoot:
		return 0
	case route.KindCategory:
		return indexOf(entries, EntryCategory, loc.ContainerID)
	case route.KindFeed:
		if i := indexOf(entries, EntryFeed, loc.ContainerID); i >= 0 {
			return i
		}
		for _, f := range s.feeds {
			if f.ID == loc.ContainerID && f.CategoryID != "" {
				return indexOf(entries, EntryCategory, f.CategoryID)
			}
		}
	}
	return -1
}

func indexOf(entries []Entry, kind EntryKind, id string) int {
	for i, e := range entries {
		if e.Kind == kind && e.ID == id {
			return i
		}
	}
	return -1
}

// Previous navigates to the row above the current one. It stays put on the
// first row.
func (s *Sidebar) Previous() {
	s.move(-1)
}

// Next navigates to the row below the current one. It stays put on the
// last row.
func (s *Sidebar) Next() {
	s.move(1)
}

func (s *Sidebar) move(delta int) {
	s.mu.RLock()
	entries := s.entriesLocked()
	cur := s.currentLocked(entries)
	s.mu.RUnlock()

	target := cur + delta
	if cur < 0 {
		target = 0
	}
	if target < 0 || target >= len(entries) || target == cur {
		return
	}
	s.router.Navigate(entries[target].Path())
}

// Select navigates to the row at index i.
func (s *Sidebar) Select(i int) {
	entries := s.Entries()
	if i < 0 || i >= len(entries) {
		return
	}
	s.router.Navigate(entries[i].Path())
}

// ToggleGroup expands or collapses the category of the current row. When a
// feed's group collapses, the location moves to the category.
func (s *Sidebar) ToggleGroup() {
	s.mu.Lock()
	entries := s.entriesLocked()
	cur := s.currentLocked(entries)
	if cur < 0 {
		s.mu.Unlock()
		return
	}

	e := entries[cur]
	var categoryID string
	switch {
	case e.Kind == EntryCategory:
		categoryID = e.ID
	case e.Kind == EntryFeed && e.CategoryID != "":
		categoryID = e.CategoryID
	default:
		s.mu.Unlock()
		return
	}

	s.collapsed[categoryID] = !s.collapsed[categoryID]
	moveToGroup := e.Kind == EntryFeed && s.collapsed[categoryID]
	s.mu.Unlock()

	if moveToGroup {
		s.router.Navigate(route.CategoryPath(categoryID))
	}
}
