package feed

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/plugins"
	"github.com/pders01/skim/internal/plugins/builtin"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/validation"
)

// UpdateListener is notified after a feed and its articles were saved.
type UpdateListener interface {
	OnDataUpdated(feed *storage.Feed, articles []*storage.Article)
}

// DeleteListener is notified after a feed and its articles were removed.
type DeleteListener interface {
	OnFeedDeleted(feedID string)
}

// RefreshSummary describes one RefreshAll run.
type RefreshSummary struct {
	Feeds    int
	Updated  int
	Articles int
	Errors   int
}

type Manager struct {
	store    *storage.Store
	fetcher  *Fetcher
	parser   *Parser
	config   *config.Config
	listener UpdateListener
	plugins  *plugins.Registry

	mu           sync.RWMutex
	urlValidator *validation.FeedURLValidator
}

func NewManager(store *storage.Store, cfg *config.Config) *Manager {
	return &Manager{
		store:        store,
		fetcher:      NewFetcher(cfg),
		parser:       NewParser(),
		config:       cfg,
		plugins:      builtin.Registry(),
		urlValidator: validation.NewFeedURLValidator(),
	}
}

// SetListener registers l to receive every saved feed/article batch.
func (m *Manager) SetListener(l UpdateListener) {
	m.listener = l
}

// SetPlugins replaces the URL resolvers consulted by AddFeed. A nil
// registry disables them.
func (m *Manager) SetPlugins(r *plugins.Registry) {
	m.plugins = r
}

// SetPermissiveValidation allows localhost and private addresses.
func (m *Manager) SetPermissiveValidation(permissive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if permissive {
		m.urlValidator = validation.NewPermissiveFeedURLValidator()
	} else {
		m.urlValidator = validation.NewFeedURLValidator()
	}
}

func (m *Manager) validator() *validation.FeedURLValidator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urlValidator
}

// AddFeed validates rawURL, fetches and parses it, and stores the feed in
// categoryID (empty for uncategorized).
func (m *Manager) AddFeed(ctx context.Context, rawURL, categoryID string) (*storage.Feed, error) {
	info, err := m.plugins.Resolve(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("resolving feed URL: %w", err)
	}
	if info.Plugin != "" {
		debuglog.Debugf("plugin %s resolved %s to %s", info.Plugin, rawURL, info.FeedURL)
	}

	normalized, err := m.validator().ValidateAndNormalize(info.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}

	feed := &storage.Feed{
		ID:         generateFeedID(normalized),
		URL:        normalized,
		CategoryID: categoryID,
		UpdatedAt:  time.Now(),
	}

	n, err := m.fetchAndSave(ctx, feed, true)
	if err != nil {
		return nil, err
	}
	if feed.Title == hostTitle(feed.URL) && info.Title != "" {
		feed.Title = info.Title
		if err := m.store.SaveFeed(feed); err != nil {
			return nil, fmt.Errorf("saving feed: %w", err)
		}
	}
	debuglog.Infof("added feed %s (%d articles)", feed.URL, n)
	return feed, nil
}

// RefreshFeed fetches one feed. Unless force is set, feeds fetched within
// the configured refresh interval are skipped. It returns the number of
// articles saved.
func (m *Manager) RefreshFeed(ctx context.Context, feedID string, force bool) (int, error) {
	feed, err := m.store.GetFeed(feedID)
	if err != nil {
		return 0, fmt.Errorf("getting feed: %w", err)
	}

	if !force && time.Since(feed.LastFetched) < m.config.Feed.RefreshInterval {
		return 0, nil
	}

	return m.fetchAndSave(ctx, feed, false)
}

func (m *Manager) fetchAndSave(ctx context.Context, feed *storage.Feed, requireBody bool) (int, error) {
	resp, updated, err := m.fetcher.Fetch(ctx, feed)
	if err != nil {
		return 0, fmt.Errorf("fetching feed: %w", err)
	}

	if !updated || resp == nil {
		if requireBody {
			return 0, errors.New("feed not modified")
		}
		feed.LastFetched = time.Now()
		if err := m.store.SaveFeed(feed); err != nil {
			return 0, fmt.Errorf("saving feed metadata: %w", err)
		}
		return 0, nil
	}
	defer resp.Body.Close()

	parsed, err := m.parser.Parse(resp.Body, feed.ID)
	if err != nil {
		return 0, err
	}

	if feed.Title == "" {
		feed.Title = parsed.Title
		if feed.Title == "" {
			feed.Title = hostTitle(feed.URL)
		}
	}
	if feed.Description == "" {
		feed.Description = parsed.Description
	}
	m.fetcher.UpdateFeedMetadata(feed, resp)
	feed.UpdatedAt = time.Now()

	if err := m.store.SaveFeed(feed); err != nil {
		return 0, fmt.Errorf("saving feed: %w", err)
	}
	if err := m.store.SaveArticles(parsed.Articles); err != nil {
		return 0, fmt.Errorf("saving articles: %w", err)
	}

	if m.listener != nil {
		m.listener.OnDataUpdated(feed, parsed.Articles)
	}
	return len(parsed.Articles), nil
}

// RefreshAll refreshes every stored feed with at most feed.workers fetches
// in flight. Per-feed failures do not stop the run; they are joined into
// the returned error.
func (m *Manager) RefreshAll(ctx context.Context, force bool) (RefreshSummary, error) {
	feeds, err := m.store.GetAllFeeds()
	if err != nil {
		return RefreshSummary{}, fmt.Errorf("getting feeds: %w", err)
	}

	summary := RefreshSummary{Feeds: len(feeds)}
	if len(feeds) == 0 {
		return summary, nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.config.Feed.Workers)
	for _, f := range feeds {
		f := f
		g.Go(func() error {
			n, refreshErr := m.RefreshFeed(gctx, f.ID, force)
			mu.Lock()
			defer mu.Unlock()
			if refreshErr != nil {
				debuglog.WithFields(map[string]any{"feed": f.URL}).Warnf("refresh failed: %v", refreshErr)
				errs = append(errs, fmt.Errorf("%s: %w", f.URL, refreshErr))
				return nil
			}
			if n > 0 {
				summary.Updated++
				summary.Articles += n
			}
			return nil
		})
	}
	// Workers never return an error; only cancellation surfaces here.
	_ = g.Wait()

	summary.Errors = len(errs)
	if ctxErr := ctx.Err(); ctxErr != nil {
		errs = append(errs, ctxErr)
	}
	return summary, errors.Join(errs...)
}

// EnsureCategory returns the category titled title, matched without regard
// to case, creating it at the end of the list when missing. An empty title
// yields nil.
func (m *Manager) EnsureCategory(title string) (*storage.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	categories, err := m.store.GetAllCategories()
	if err != nil {
		return nil, fmt.Errorf("getting categories: %w", err)
	}
	for _, c := range categories {
		if strings.EqualFold(c.Title, title) {
			return c, nil
		}
	}

	c := &storage.Category{
		ID:       uuid.NewString(),
		Title:    title,
		Position: len(categories),
	}
	if err := m.store.SaveCategory(c); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	debuglog.Infof("created category %q", title)
	return c, nil
}

// DeleteFeed removes a feed and its articles.
func (m *Manager) DeleteFeed(feedID string) error {
	if _, err := m.store.GetFeed(feedID); err != nil {
		return fmt.Errorf("getting feed: %w", err)
	}
	if err := m.store.DeleteFeed(feedID); err != nil {
		return fmt.Errorf("deleting feed: %w", err)
	}
	if dl, ok := m.listener.(DeleteListener); ok {
		dl.OnFeedDeleted(feedID)
	}
	return nil
}

// FindFeed resolves a feed by ID or by URL.
func (m *Manager) FindFeed(ref string) (*storage.Feed, error) {
	if f, err := m.store.GetFeed(ref); err == nil {
		return f, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	feeds, err := m.store.GetAllFeeds()
	if err != nil {
		return nil, fmt.Errorf("getting feeds: %w", err)
	}
	if normalized, vErr := m.validator().ValidateAndNormalize(ref); vErr == nil {
		ref = normalized
	}
	for _, f := range feeds {
		if f.URL == ref {
			return f, nil
		}
	}
	return nil, storage.ErrNotFound
}

func generateFeedID(url string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
}
