package hotkeys

import (
	"context"
	"time"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/route"
)

// refresh syncs every feed, waits the grace delay and then resets the view
// to the unread articles of the root container. The reset also runs after
// a failed sync. The sequence is best effort: failures are logged, nothing
// is returned and completed steps are not rolled back.
func (d *Dispatcher) refresh() Task {
	return func(ctx context.Context) error {
		if err := d.deps.Syncer.ForceSync(ctx); err != nil {
			if ctx.Err() != nil {
				debuglog.Debugf("refresh: canceled during sync")
				return nil
			}
			debuglog.Errorf("refresh: sync failed: %v", err)
		}

		if !wait(ctx, d.grace) {
			debuglog.Debugf("refresh: canceled before view reset")
			return nil
		}

		d.deps.Articles.SetActive(nil)
		d.deps.Articles.SetFilter(articles.FilterUnread)
		d.deps.Router.Navigate(route.Root)
		if err := d.deps.Articles.Load(ctx, "", route.KindFeed, 1, false); err != nil {
			debuglog.Errorf("refresh: reloading articles failed: %v", err)
			return nil
		}

		debuglog.Infof("refresh: view reset to unread articles")
		return nil
	}
}

// wait blocks for dur or until ctx ends. It reports whether the full
// duration elapsed.
func wait(ctx context.Context, dur time.Duration) bool {
	if dur <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
