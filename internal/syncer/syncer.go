// Package syncer runs a forced refresh of every feed.
package syncer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/feed"
)

// Refresher refreshes all feeds.
type Refresher interface {
	RefreshAll(ctx context.Context, force bool) (feed.RefreshSummary, error)
}

// Result describes the last completed sync.
type Result struct {
	Summary  feed.RefreshSummary
	Err      error
	Finished time.Time
}

// Syncer serializes forced syncs: concurrent ForceSync calls share the run
// already in flight.
type Syncer struct {
	refresher Refresher
	group     singleflight.Group

	mu   sync.RWMutex
	last Result
}

func New(refresher Refresher) *Syncer {
	return &Syncer{refresher: refresher}
}

// ForceSync refreshes every feed regardless of its refresh interval and
// returns when the run completes. It fails only when the run failed as a
// whole; feeds that could not be refreshed in an otherwise working run are
// reported through Last.
func (s *Syncer) ForceSync(ctx context.Context) error {
	ch := s.group.DoChan("sync", func() (any, error) {
		start := time.Now()
		summary, err := s.refresher.RefreshAll(context.WithoutCancel(ctx), true)

		debuglog.WithFields(map[string]any{
			"feeds":    summary.Feeds,
			"updated":  summary.Updated,
			"articles": summary.Articles,
			"errors":   summary.Errors,
			"took":     time.Since(start).Round(time.Millisecond).String(),
		}).Infof("sync finished")

		s.mu.Lock()
		s.last = Result{Summary: summary, Err: err, Finished: time.Now()}
		s.mu.Unlock()

		if err != nil && !failed(summary) {
			debuglog.Warnf("sync: %d of %d feeds failed: %v", summary.Errors, summary.Feeds, err)
			return summary, nil
		}
		return summary, err
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// failed reports whether no feed of an erroring run was refreshed.
func failed(summary feed.RefreshSummary) bool {
	return summary.Errors >= summary.Feeds
}

// Last returns the most recent completed sync.
func (s *Syncer) Last() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
