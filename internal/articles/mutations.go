package articles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/storage"
)

const (
	maxRetries     = 3
	retryBaseDelay = 100 * time.Millisecond
)

// Mutations persists per-article user state and reflects the result back
// into the Store.
type Mutations struct {
	db    *storage.Store
	store *Store
}

func NewMutations(db *storage.Store, store *Store) *Mutations {
	return &Mutations{db: db, store: store}
}

// ToggleStatus flips a between read and unread.
func (m *Mutations) ToggleStatus(ctx context.Context, a *storage.Article) error {
	return m.apply(ctx, "status", a, func() (*storage.Article, error) {
		return m.db.SetArticleStatus(a.ID, a.Status.Toggle())
	})
}

func (m *Mutations) ToggleStar(ctx context.Context, a *storage.Article) error {
	return m.apply(ctx, "star", a, func() (*storage.Article, error) {
		return m.db.SetArticleStarred(a.ID, !a.Starred)
	})
}

// ToggleContent switches the reader between summary and original content.
func (m *Mutations) ToggleContent(ctx context.Context, a *storage.Article) error {
	return m.apply(ctx, "content", a, func() (*storage.Article, error) {
		return m.db.SetArticleContentMode(a.ID, a.ContentMode.Toggle())
	})
}

func (m *Mutations) apply(ctx context.Context, op string, a *storage.Article, persist func() (*storage.Article, error)) error {
	if a == nil || a.ID == "" {
		return errors.New("no article to update")
	}

	var updated *storage.Article
	err := retryOperation(ctx, func() error {
		var err error
		updated, err = persist()
		return err
	})
	if err != nil {
		debuglog.WithFields(map[string]any{"article": a.ID, "op": op}).Errorf("mutation failed: %v", err)
		return fmt.Errorf("updating %s of article: %w", op, err)
	}

	m.store.Update(updated)
	return nil
}

// retryOperation runs operation up to maxRetries times with exponential
// backoff. Missing records are not retried.
func retryOperation(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, storage.ErrNotFound) || i == maxRetries-1 {
			break
		}

		timer := time.NewTimer(retryBaseDelay * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
