package hotkeys

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/ui"
)

// recorder collects collaborator calls in order across all fakes.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeStore struct {
	rec      *recorder
	mu       sync.Mutex
	active   *storage.Article
	filtered []*storage.Article
	loadErr  error
}

func (s *fakeStore) Active() *storage.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *fakeStore) Filtered() []*storage.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered
}

func (s *fakeStore) SetActive(a *storage.Article) {
	s.mu.Lock()
	s.active = a
	s.mu.Unlock()
	if a == nil {
		s.rec.add("SetActive(nil)")
	} else {
		s.rec.add("SetActive(%s)", a.ID)
	}
}

func (s *fakeStore) SetFilter(f articles.Filter) {
	s.rec.add("SetFilter(%s)", f)
}

func (s *fakeStore) Load(_ context.Context, containerID string, kind route.Kind, page int, incremental bool) error {
	s.rec.add("Load(%q,%s,%d,%t)", containerID, kind, page, incremental)
	return s.loadErr
}

type fakeSyncer struct {
	rec     *recorder
	err     error
	release chan struct{}
}

func (s *fakeSyncer) ForceSync(ctx context.Context) error {
	s.rec.add("ForceSync")
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.err
}

type fakeMutations struct {
	rec     *recorder
	err     error
	release chan struct{}
}

func (m *fakeMutations) do(name string, a *storage.Article) error {
	m.rec.add("%s(%s)", name, a.ID)
	if m.release != nil {
		<-m.release
	}
	return m.err
}

func (m *fakeMutations) ToggleStatus(_ context.Context, a *storage.Article) error {
	return m.do("ToggleStatus", a)
}

func (m *fakeMutations) ToggleStar(_ context.Context, a *storage.Article) error {
	return m.do("ToggleStar", a)
}

func (m *fakeMutations) ToggleContent(_ context.Context, a *storage.Article) error {
	return m.do("ToggleContent", a)
}

type fakeGallery struct{ active bool }

func (g *fakeGallery) Active() bool { return g.active }

type fakeRouter struct {
	rec  *recorder
	mu   sync.Mutex
	path string
}

func (r *fakeRouter) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *fakeRouter) Navigate(path string) {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
	r.rec.add("Navigate(%s)", path)
}

type fakeSidebar struct{ rec *recorder }

func (s *fakeSidebar) Previous()    { s.rec.add("Sidebar.Previous") }
func (s *fakeSidebar) Next()        { s.rec.add("Sidebar.Next") }
func (s *fakeSidebar) ToggleGroup() { s.rec.add("Sidebar.ToggleGroup") }

type fakeOpener struct {
	rec *recorder
	err error
}

func (o *fakeOpener) Open(url string) error {
	o.rec.add("Open(%s)", url)
	return o.err
}

type harness struct {
	rec       *recorder
	store     *fakeStore
	syncer    *fakeSyncer
	mutations *fakeMutations
	modals    *ui.Modals
	gallery   *fakeGallery
	router    *fakeRouter
	opener    *fakeOpener
	d         *Dispatcher
}

func newHarness(opts Options) *harness {
	if opts.RefreshGrace == 0 {
		opts.RefreshGrace = time.Millisecond
	}
	rec := &recorder{}
	h := &harness{
		rec:       rec,
		store:     &fakeStore{rec: rec},
		syncer:    &fakeSyncer{rec: rec},
		mutations: &fakeMutations{rec: rec},
		modals:    ui.NewModals(),
		gallery:   &fakeGallery{},
		router:    &fakeRouter{rec: rec, path: "/"},
		opener:    &fakeOpener{rec: rec},
	}
	h.d = New(Deps{
		Articles:  h.store,
		Syncer:    h.syncer,
		Mutations: h.mutations,
		Modals:    h.modals,
		Gallery:   h.gallery,
		Router:    h.router,
		Sidebar:   &fakeSidebar{rec: rec},
		Opener:    h.opener,
	}, opts)
	h.d.Start(context.Background())
	return h
}

// press dispatches a plain key on the main surface.
func (h *harness) press(key string) Result {
	return h.d.Dispatch(Event{Key: key})
}

// run executes a result's task, if any.
func (h *harness) run(res Result) error {
	if res.Task == nil {
		return nil
	}
	return res.Task(context.Background())
}

func article(id string, status storage.Status) *storage.Article {
	return &storage.Article{ID: id, Status: status, URL: "https://example.com/" + id}
}
