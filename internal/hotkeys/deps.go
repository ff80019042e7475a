package hotkeys

import (
	"context"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/ui"
)

// ArticleStore holds the filtered list and the active article.
type ArticleStore interface {
	Active() *storage.Article
	Filtered() []*storage.Article
	SetActive(a *storage.Article)
	SetFilter(f articles.Filter)
	Load(ctx context.Context, containerID string, kind route.Kind, page int, incremental bool) error
}

// Syncer refreshes every feed. ForceSync returns once the run completes or
// fails.
type Syncer interface {
	ForceSync(ctx context.Context) error
}

// Mutations persist per-article state changes.
type Mutations interface {
	ToggleStatus(ctx context.Context, a *storage.Article) error
	ToggleStar(ctx context.Context, a *storage.Article) error
	ToggleContent(ctx context.Context, a *storage.Article) error
}

// Modals reports and sets dialog visibility.
type Modals interface {
	Get(m ui.Modal) bool
	Set(m ui.Modal, open bool)
}

// Gallery reports whether the media overlay is showing.
type Gallery interface {
	Active() bool
}

// Router owns the current location path.
type Router interface {
	Path() string
	Navigate(path string)
}

// Sidebar moves through the feed tree and folds its groups.
type Sidebar interface {
	Previous()
	Next()
	ToggleGroup()
}

// Opener opens a URL outside the application.
type Opener interface {
	Open(url string) error
}

// Deps are the collaborators the dispatcher drives. All are required.
type Deps struct {
	Articles  ArticleStore
	Syncer    Syncer
	Mutations Mutations
	Modals    Modals
	Gallery   Gallery
	Router    Router
	Sidebar   Sidebar
	Opener    Opener
}
