package hotkeys

import (
	"context"
	"fmt"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/ui"
)

func (d *Dispatcher) toggleModal(m ui.Modal) {
	d.deps.Modals.Set(m, !d.deps.Modals.Get(m))
}

func (d *Dispatcher) articleOpen() bool {
	return ArticleID(d.deps.Router.Path()) != ""
}

// nextArticle opens the first article when none is open, otherwise the one
// after the active article. An active article missing from the list counts
// as position -1, so the first entry opens.
func (d *Dispatcher) nextArticle() Task {
	list := d.deps.Articles.Filtered()

	var target *storage.Article
	if !d.articleOpen() {
		if len(list) == 0 {
			debuglog.Debugf("next article: list is empty")
			return nil
		}
		target = list[0]
	} else {
		pos := IndexOf(list, d.deps.Articles.Active())
		if pos >= len(list)-1 {
			return nil
		}
		target = list[pos+1]
	}
	return d.openArticle(target)
}

func (d *Dispatcher) prevArticle() Task {
	list := d.deps.Articles.Filtered()
	pos := IndexOf(list, d.deps.Articles.Active())
	if pos <= 0 {
		return nil
	}
	return d.openArticle(list[pos-1])
}

// openArticle navigates to a within the current container and returns the
// mark-read task when a is unread.
func (d *Dispatcher) openArticle(a *storage.Article) Task {
	if a == nil || a.ID == "" {
		debuglog.Debugf("open article: target has no ID")
		return nil
	}

	d.deps.Router.Navigate(ArticlePath(BasePath(d.deps.Router.Path()), a.ID))

	if a.IsRead() {
		return nil
	}
	return d.serialized(mutationKey(CmdToggleRead, a), func(ctx context.Context) error {
		if err := d.deps.Mutations.ToggleStatus(ctx, a); err != nil {
			return fmt.Errorf("marking article read: %w", err)
		}
		return nil
	})
}

func (d *Dispatcher) mutateActive(cmd Command, mutate func(context.Context, *storage.Article) error) Task {
	if !d.articleOpen() {
		return nil
	}
	a := d.deps.Articles.Active()
	if a == nil {
		debuglog.Debugf("%s: route has an article but none is active", cmd)
		return nil
	}
	return d.serialized(mutationKey(cmd, a), func(ctx context.Context) error {
		if err := mutate(ctx, a); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		return nil
	})
}

func mutationKey(cmd Command, a *storage.Article) string {
	return cmd.String() + ":" + a.ID
}

func (d *Dispatcher) closeArticle() {
	if d.deps.Gallery.Active() {
		return
	}
	base := BasePath(d.deps.Router.Path())
	if base == "" {
		base = route.Root
	}
	d.deps.Router.Navigate(base)
}

func (d *Dispatcher) openExternal() Task {
	if !d.articleOpen() {
		return nil
	}
	a := d.deps.Articles.Active()
	if a == nil || a.URL == "" {
		return nil
	}
	url := a.URL
	return func(context.Context) error {
		if err := d.deps.Opener.Open(url); err != nil {
			return fmt.Errorf("opening %s: %w", url, err)
		}
		return nil
	}
}
