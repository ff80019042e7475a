// Package articles holds the article list the reader is browsing: the
// loaded page for the current container, the filter mode and the active
// article.
package articles

import (
	"context"
	"fmt"
	"sync"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
)

const DefaultPageSize = 50

// Filter selects which loaded articles are visible.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterUnread  Filter = "unread"
	FilterStarred Filter = "starred"
)

func (f Filter) matches(a *storage.Article) bool {
	switch f {
	case FilterUnread:
		return !a.IsRead()
	case FilterStarred:
		return a.Starred
	default:
		return true
	}
}

// Next cycles all → unread → starred → all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterUnread
	case FilterUnread:
		return FilterStarred
	default:
		return FilterAll
	}
}

// Store is safe for concurrent use. Articles handed out are never modified
// in place; updates replace them, so a returned slice is a stable snapshot.
type Store struct {
	db       *storage.Store
	pageSize int

	mu          sync.RWMutex
	filter      Filter
	loaded      []*storage.Article
	active      *storage.Article
	containerID string
	kind        route.Kind
	page        int
	hasMore     bool
	listeners   []func()
}

func NewStore(db *storage.Store, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		db:       db,
		pageSize: pageSize,
		filter:   FilterAll,
		kind:     route.KindRoot,
	}
}

// Subscribe registers fn to be called after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) Active() *storage.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Store) SetActive(a *storage.Article) {
	s.mu.Lock()
	s.active = a
	s.mu.Unlock()
	s.notify()
}

// SetActiveByID makes the article with id active, looking it up in the
// loaded page first and then in the database. An empty id clears it.
func (s *Store) SetActiveByID(id string) error {
	if id == "" {
		s.SetActive(nil)
		return nil
	}

	s.mu.RLock()
	var found *storage.Article
	for _, a := range s.loaded {
		if a.ID == id {
			found = a
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		a, err := s.db.GetArticle(id)
		if err != nil {
			s.SetActive(nil)
			return fmt.Errorf("activating article: %w", err)
		}
		found = a
	}
	s.SetActive(found)
	return nil
}

func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.notify()
}

// Filtered returns the visible articles in list order.
func (s *Store) Filtered() []*storage.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*storage.Article, 0, len(s.loaded))
	for _, a := range s.loaded {
		if s.filter.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// Container returns the id and kind of the last loaded container.
func (s *Store) Container() (string, route.Kind) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containerID, s.kind
}

// Page returns the last loaded page and whether another may follow.
func (s *Store) Page() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, s.hasMore
}

// Load fetches one page of articles for a container. An empty containerID
// means every feed regardless of kind. When incremental is set the page is
// appended to what is already loaded, otherwise it replaces it.
func (s *Store) Load(ctx context.Context, containerID string, kind route.Kind, page int, incremental bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page < 1 {
		page = 1
	}

	var feedIDs []string
	if containerID != "" {
		switch kind {
		case route.KindCategory:
			ids, err := s.db.FeedIDsInCategory(containerID)
			if err != nil {
				return fmt.Errorf("listing category feeds: %w", err)
			}
			if len(ids) == 0 {
				s.replace(containerID, kind, page, incremental, nil, false)
				return nil
			}
			feedIDs = ids
		default:
			feedIDs = []string{containerID}
		}
	}

	list, err := s.db.ListArticles(storage.ArticleQuery{
		FeedIDs: feedIDs,
		Offset:  (page - 1) * s.pageSize,
		Limit:   s.pageSize,
	})
	if err != nil {
		return fmt.Errorf("loading articles: %w", err)
	}

	debuglog.WithFields(map[string]any{
		"container":   containerID,
		"kind":        string(kind),
		"page":        page,
		"incremental": incremental,
	}).Debugf("loaded %d articles", len(list))

	s.replace(containerID, kind, page, incremental, list, len(list) == s.pageSize)
	return nil
}

func (s *Store) replace(containerID string, kind route.Kind, page int, incremental bool, list []*storage.Article, hasMore bool) {
	s.mu.Lock()
	if incremental {
		seen := make(map[string]bool, len(s.loaded))
		for _, a := range s.loaded {
			seen[a.ID] = true
		}
		for _, a := range list {
			if !seen[a.ID] {
				s.loaded = append(s.loaded, a)
			}
		}
	} else {
		s.loaded = list
	}
	s.containerID = containerID
	s.kind = kind
	s.page = page
	s.hasMore = hasMore
	s.mu.Unlock()
	s.notify()
}

// Update swaps in a newer copy of an article wherever it appears.
func (s *Store) Update(a *storage.Article) {
	if a == nil {
		return
	}
	s.mu.Lock()
	for i, cur := range s.loaded {
		if cur.ID == a.ID {
			s.loaded[i] = a
		}
	}
	if s.active != nil && s.active.ID == a.ID {
		s.active = a
	}
	s.mu.Unlock()
	s.notify()
}
