package hotkeys

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/ui"
)

// DefaultRefreshGrace is the pause between a finished sync and the view
// reset.
const DefaultRefreshGrace = time.Second

// Task is the asynchronous remainder of a command. The caller runs it off
// the event loop; further key presses are dispatched while it runs.
type Task func(ctx context.Context) error

// Result is the outcome of dispatching one key press.
type Result struct {
	Command        Command
	PreventDefault bool
	Task           Task
}

// Options tune a Dispatcher. The zero value is usable.
type Options struct {
	// RefreshGrace is the pause between sync and view reset. Zero or
	// negative means DefaultRefreshGrace.
	RefreshGrace time.Duration
	// SerializeMutations collapses concurrent identical article mutations
	// into a single in-flight call.
	SerializeMutations bool
}

// Dispatcher turns key events into commands against its collaborators. It
// only dispatches between Start and Stop.
type Dispatcher struct {
	deps  Deps
	grace time.Duration
	group *singleflight.Group

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a stopped dispatcher; call Start before dispatching.
func New(deps Deps, opts Options) *Dispatcher {
	grace := opts.RefreshGrace
	if grace <= 0 {
		grace = DefaultRefreshGrace
	}
	d := &Dispatcher{deps: deps, grace: grace}
	if opts.SerializeMutations {
		d.group = &singleflight.Group{}
	}
	return d
}

// Start binds the dispatcher to a lifetime derived from parent. Calling
// Start again replaces the previous lifetime.
func (d *Dispatcher) Start(parent context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.ctx, d.cancel = context.WithCancel(parent)
}

// Stop ends the lifetime. Pending tasks see their context canceled and no
// scheduled continuation runs afterwards.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Dispatcher) lifetime() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctx
}

// Running reports whether key events are being dispatched.
func (d *Dispatcher) Running() bool {
	ctx := d.lifetime()
	return ctx != nil && ctx.Err() == nil
}

// Dispatch handles one key press. Synchronous effects happen before it
// returns; anything that waits on a collaborator is returned as the
// result's Task. Dispatch never fails: unknown keys and missing
// preconditions yield a result without a task.
func (d *Dispatcher) Dispatch(ev Event) Result {
	life := d.lifetime()
	if life == nil || life.Err() != nil {
		return Result{}
	}

	key, ok := Classify(ev)
	if !ok {
		return Result{}
	}
	cmd := Lookup(key)
	if cmd == CmdNone {
		return Result{}
	}

	res := Result{Command: cmd, PreventDefault: cmd.PreventsDefault()}
	switch cmd {
	case CmdToggleShortcuts:
		d.toggleModal(ui.ModalShortcuts)
	case CmdToggleAddFeed:
		d.toggleModal(ui.ModalAddFeed)
	case CmdOpenSearch:
		d.deps.Modals.Set(ui.ModalSearch, true)
	case CmdNextArticle:
		res.Task = d.nextArticle()
	case CmdPrevArticle:
		res.Task = d.prevArticle()
	case CmdToggleRead:
		res.Task = d.mutateActive(cmd, d.deps.Mutations.ToggleStatus)
	case CmdToggleStar:
		res.Task = d.mutateActive(cmd, d.deps.Mutations.ToggleStar)
	case CmdToggleContent:
		res.Task = d.mutateActive(cmd, d.deps.Mutations.ToggleContent)
	case CmdRefresh:
		// Ctrl/Meta+R belongs to the host; the key is still consumed.
		if ev.Ctrl || ev.Meta {
			break
		}
		res.Task = d.refresh()
	case CmdCloseArticle:
		d.closeArticle()
	case CmdOpenExternal:
		res.Task = d.openExternal()
	case CmdPrevSidebar:
		d.deps.Sidebar.Previous()
	case CmdNextSidebar:
		d.deps.Sidebar.Next()
	case CmdToggleGroup:
		d.deps.Sidebar.ToggleGroup()
	}

	debuglog.Debugf("hotkey %q -> %s", string(key), cmd)

	if res.Task != nil {
		res.Task = bind(life, res.Task)
	}
	return res
}

// bind runs task with a context that is also canceled when life ends.
func bind(life context.Context, task Task) Task {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(life, cancel)
		defer stop()
		return task(ctx)
	}
}

// serialized shares one in-flight run per key when serialization is on.
func (d *Dispatcher) serialized(key string, task Task) Task {
	if d.group == nil {
		return task
	}
	return func(ctx context.Context) error {
		_, err, _ := d.group.Do(key, func() (any, error) {
			return nil, task(ctx)
		})
		return err
	}
}
