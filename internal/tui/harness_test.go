package tui

import (
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/feed"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/search"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/syncer"
)

type fakeOpener struct {
	mu   sync.Mutex
	urls []string
}

func (o *fakeOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return nil
}

func (o *fakeOpener) opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

type testApp struct {
	t      *testing.T
	app    *App
	db     *storage.Store
	opener *fakeOpener

	// feedURL is the URL of the seeded feed. The default refuses
	// connections.
	feedURL string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.TestConfig()

	db, err := storage.NewStore(filepath.Join(t.TempDir(), "skim.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	idx, err := search.Open(db, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	manager := feed.NewManager(db, cfg)
	manager.SetPermissiveValidation(true)
	manager.SetListener(idx)

	opener := &fakeOpener{}
	app := NewApp(cfg, Services{
		Store:   db,
		Manager: manager,
		Syncer:  syncer.New(manager),
		Search:  idx,
		Opener:  opener,
	})
	t.Cleanup(app.Close)

	ta := &testApp{t: t, app: app, db: db, opener: opener, feedURL: "http://127.0.0.1:1/feed.xml"}
	ta.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return ta
}

// seed stores one feed with the given articles, newest first, and loads
// the root list.
func (ta *testApp) seed(articles ...*storage.Article) {
	ta.t.Helper()
	require.NoError(ta.t, ta.db.SaveFeed(&storage.Feed{ID: "f1", URL: ta.feedURL, Title: "Example"}))

	now := time.Now()
	for i, a := range articles {
		a.FeedID = "f1"
		a.Published = now.Add(-time.Duration(i) * time.Hour)
	}
	require.NoError(ta.t, ta.db.SaveArticles(articles))

	ta.run(tea.Batch(ta.app.reloadSidebar(), ta.app.loadArticles(route.Parse(route.Root), 1, false)))
}

func (ta *testApp) send(msg tea.Msg) {
	ta.t.Helper()
	_, cmd := ta.app.Update(msg)
	ta.run(cmd)
}

func (ta *testApp) press(keys ...string) {
	ta.t.Helper()
	for _, k := range keys {
		ta.send(keyMsg(k))
	}
}

// run executes cmd and feeds every resulting message back into the app
// until nothing is left.
func (ta *testApp) run(cmd tea.Cmd) {
	ta.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(ta.t, steps, 500, "command queue did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := ta.exec(next)
		switch m := msg.(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, m...)
		default:
			if cmds, ok := sequenceCmds(msg); ok {
				queue = append(queue, cmds...)
				continue
			}
			_, follow := ta.app.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func (ta *testApp) exec(cmd tea.Cmd) tea.Msg {
	ta.t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		ta.t.Fatal("command did not complete")
		return nil
	}
}

// sequenceCmds unpacks the unexported message tea.Sequence produces.
func sequenceCmds(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}
