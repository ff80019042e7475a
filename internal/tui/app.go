package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/skim/internal/articles"
	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/feed"
	"github.com/pders01/skim/internal/hotkeys"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/search"
	"github.com/pders01/skim/internal/sidebar"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/syncer"
	"github.com/pders01/skim/internal/ui"
)

const (
	sidebarWidth    = 30
	searchDebounce  = 150
	searchLimit     = 20
	statusBarHeight = 2
)

// Services are the long-lived backends the TUI drives.
type Services struct {
	Store   *storage.Store
	Manager *feed.Manager
	Syncer  *syncer.Syncer
	// Search may be nil, which disables the search dialog.
	Search search.Searcher
	Opener hotkeys.Opener
}

type App struct {
	config *config.Config
	svc    Services
	ctx    context.Context
	cancel context.CancelFunc

	router     *route.Router
	articles   *articles.Store
	mutations  *articles.Mutations
	modals     *ui.Modals
	gallery    *ui.Gallery
	sidebar    *sidebar.Sidebar
	dispatcher *hotkeys.Dispatcher
	keys       hotkeys.KeyMap
	keyHandler *KeyHandler

	// changed is a coalescing signal from router and store listeners.
	changed chan struct{}

	articleList   list.Model
	searchList    list.Model
	searchInput   textinput.Model
	feedInput     textinput.Model
	categoryInput textinput.Model
	viewport      viewport.Model
	help          help.Model
	spinner       spinner.Model

	path           string
	renderKey      string
	loadingArticle bool
	loadingPage    bool
	searchSeq      int

	status     string
	statusKind StatusKind
	busy       bool

	width  int
	height int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, svc Services) *App {
	ApplyColors(cfg.UI.Colors)

	articleList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	articleList.Title = "› articles"
	articleList.SetShowStatusBar(false)
	articleList.SetFilteringEnabled(false)
	articleList.SetShowHelp(false)
	articleList.KeyMap.Quit.SetEnabled(false)
	articleList.KeyMap.ForceQuit.SetEnabled(false)
	articleList.KeyMap.ShowFullHelp.SetEnabled(false)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetFilteringEnabled(false)
	searchList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search feeds and articles..."
	si.CharLimit = 256

	fi := textinput.New()
	fi.Placeholder = "Feed URL"

	ci := textinput.New()
	ci.Placeholder = "Category (optional)"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())

	router := route.NewRouter()
	store := articles.NewStore(svc.Store, cfg.UI.PageSize)
	modals := ui.NewModals()
	gallery := ui.NewGallery()

	a := &App{
		config:        cfg,
		svc:           svc,
		ctx:           ctx,
		cancel:        cancel,
		router:        router,
		articles:      store,
		mutations:     articles.NewMutations(svc.Store, store),
		modals:        modals,
		gallery:       gallery,
		sidebar:       sidebar.New(svc.Store, router),
		keys:          hotkeys.DefaultKeyMap(),
		changed:       make(chan struct{}, 1),
		articleList:   articleList,
		searchList:    searchList,
		searchInput:   si,
		feedInput:     fi,
		categoryInput: ci,
		viewport:      viewport.New(0, 0),
		help:          help.New(),
		spinner:       sp,
		path:          route.Root,
	}

	a.dispatcher = hotkeys.New(hotkeys.Deps{
		Articles:  a.articles,
		Syncer:    svc.Syncer,
		Mutations: a.mutations,
		Modals:    a.modals,
		Gallery:   a.gallery,
		Router:    a.router,
		Sidebar:   a.sidebar,
		Opener:    svc.Opener,
	}, hotkeys.Options{
		RefreshGrace:       cfg.Keys.RefreshGrace,
		SerializeMutations: cfg.Keys.SerializeMutations,
	})
	a.keyHandler = NewKeyHandler(a)

	router.Subscribe(func(route.Location) { a.signal() })
	store.Subscribe(a.signal)

	a.dispatcher.Start(ctx)
	return a
}

// Close stops the dispatcher and cancels pending work.
func (a *App) Close() {
	a.dispatcher.Stop()
	a.cancel()
}

func (a *App) signal() {
	select {
	case a.changed <- struct{}{}:
	default:
	}
}

func (a *App) waitForChange() tea.Cmd {
	ctx, changed := a.ctx, a.changed
	return func() tea.Msg {
		select {
		case <-changed:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.reloadSidebar(),
		a.loadArticles(route.Parse(route.Root), 1, false),
		a.waitForChange(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		cmds = append(cmds, a.rerender())

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case changedMsg:
		cmds = append(cmds, a.sync(), a.waitForChange())

	case articlesLoadedMsg:
		a.loadingPage = false
		if msg.err != nil {
			a.setError(wrapErr("loading articles", msg.err))
		}
		cmds = append(cmds, a.sync())

	case articleRenderedMsg:
		if msg.key == a.renderKey {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case sidebarLoadedMsg:
		if msg.err != nil {
			a.setError(msg.err)
		}

	case taskDoneMsg:
		cmds = append(cmds, a.taskDone(msg))

	case feedAddedMsg:
		cmds = append(cmds, a.feedAdded(msg))

	case searchDebounceMsg:
		if msg.seq == a.searchSeq && a.modals.Get(ui.ModalSearch) {
			cmds = append(cmds, a.performSearch(sanitizeQuery(a.searchInput.Value())))
		}

	case searchResultsMsg:
		if msg.err != nil {
			a.setError(msg.err)
			break
		}
		if msg.query != sanitizeQuery(a.searchInput.Value()) {
			break
		}
		items := make([]list.Item, len(msg.results))
		for i, r := range msg.results {
			items[i] = searchResultItem{result: r}
		}
		cmds = append(cmds, a.searchList.SetItems(items))
		if len(items) == 0 {
			a.setStatus(MsgNoResults, StatusInfo)
		} else {
			a.setStatus(MsgResultsCount(len(items)), StatusInfo)
		}

	case errorMsg:
		a.setError(msg.err)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	mainWidth := a.mainWidth()
	bodyHeight := max(1, height-statusBarHeight)
	a.articleList.SetSize(mainWidth, bodyHeight)
	a.viewport.Width = mainWidth
	a.viewport.Height = bodyHeight

	a.searchList.SetSize(max(20, width*3/4), max(5, height-12))
	inputWidth := max(20, width/2)
	a.searchInput.Width = inputWidth
	a.feedInput.Width = inputWidth
	a.categoryInput.Width = inputWidth
	a.help.Width = width
}

func (a *App) mainWidth() int {
	if a.width < sidebarWidth*2 {
		return a.width
	}
	return a.width - sidebarWidth - 1
}

// sync brings the view in line with the router and the article store.
func (a *App) sync() tea.Cmd {
	cmds := []tea.Cmd{a.syncModals(), a.syncRoute(), a.syncReader()}
	a.refreshList()
	return tea.Batch(cmds...)
}

// holdsContainer reports whether the article store already has loc's
// container loaded. An empty container ID means every feed whatever the
// kind.
func (a *App) holdsContainer(loc route.Location) bool {
	if page, _ := a.articles.Page(); page == 0 {
		return false
	}
	id, kind := a.articles.Container()
	return id == loc.ContainerID && (id == "" || kind == loc.Kind)
}

// syncRoute reacts to a changed location: it loads the new container and
// resolves the active article from the path.
func (a *App) syncRoute() tea.Cmd {
	path := a.router.Path()
	if path == a.path {
		return nil
	}
	prev := route.Parse(a.path)
	loc := route.Parse(path)
	a.path = path

	var cmds []tea.Cmd
	if prev.Kind != loc.Kind || prev.ContainerID != loc.ContainerID {
		a.articleList.ResetSelected()
		if !a.holdsContainer(loc) {
			cmds = append(cmds, a.loadArticles(loc, 1, false))
		}
	}
	if prev.ArticleID != loc.ArticleID {
		a.gallery.Close()
	}

	if loc.ArticleID == "" {
		if a.articles.Active() != nil {
			a.articles.SetActive(nil)
		}
		return tea.Batch(cmds...)
	}

	if err := a.articles.SetActiveByID(loc.ArticleID); err != nil {
		a.setError(err)
	}
	return tea.Batch(cmds...)
}

// syncReader renders the active article when it or its display mode
// changed.
func (a *App) syncReader() tea.Cmd {
	active := a.articles.Active()
	if active == nil || route.Parse(a.path).ArticleID == "" {
		a.renderKey = ""
		a.loadingArticle = false
		return nil
	}
	key := renderKey(active)
	if key == a.renderKey {
		return nil
	}
	a.renderKey = key
	a.loadingArticle = true
	return a.renderArticle(active)
}

// rerender forces the active article through the renderer again, e.g.
// after a resize.
func (a *App) rerender() tea.Cmd {
	a.renderKey = ""
	return a.syncReader()
}

// syncModals focuses the input of a freshly opened dialog and blurs the
// inputs of closed ones.
func (a *App) syncModals() tea.Cmd {
	var cmd tea.Cmd
	if a.modals.Get(ui.ModalSearch) {
		if !a.searchInput.Focused() {
			a.searchInput.Reset()
			a.searchList.SetItems(nil)
			cmd = a.searchInput.Focus()
		}
	} else if a.searchInput.Focused() {
		a.searchInput.Blur()
	}

	if a.modals.Get(ui.ModalAddFeed) {
		if !a.feedInput.Focused() && !a.categoryInput.Focused() {
			a.feedInput.Reset()
			a.categoryInput.Reset()
			cmd = a.feedInput.Focus()
		}
	} else {
		a.feedInput.Blur()
		a.categoryInput.Blur()
	}
	return cmd
}

// refreshList rebuilds the article list items from the filtered view.
func (a *App) refreshList() {
	filtered := a.articles.Filtered()
	items := make([]list.Item, len(filtered))
	for i, art := range filtered {
		items[i] = articleItem{article: art}
	}
	a.articleList.SetItems(items)
	a.articleList.Title = a.listTitle()
	if i := hotkeys.IndexOf(filtered, a.articles.Active()); i >= 0 {
		a.articleList.Select(i)
	}
}

func (a *App) listTitle() string {
	return "› " + a.containerTitle(route.Parse(a.path)) + " (" + string(a.articles.Filter()) + ")"
}

// containerTitle names the feed or category loc points at.
func (a *App) containerTitle(loc route.Location) string {
	switch loc.Kind {
	case route.KindFeed:
		if f, err := a.svc.Store.GetFeed(loc.ContainerID); err == nil {
			if f.Title != "" {
				return f.Title
			}
			return f.URL
		}
	case route.KindCategory:
		for _, e := range a.sidebar.Entries() {
			if e.Kind == sidebar.EntryCategory && e.ID == loc.ContainerID {
				return e.Title
			}
		}
	}
	return "all articles"
}

// focusTarget reports what kind of control receives keys.
func (a *App) focusTarget() hotkeys.Target {
	if a.modals.Get(ui.ModalSearch) || a.modals.Get(ui.ModalAddFeed) {
		return hotkeys.TargetInput
	}
	return hotkeys.TargetSurface
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) setError(err error) {
	if err == nil {
		return
	}
	a.setStatus("✗ "+err.Error(), StatusError)
}

func (a *App) startBusy(text string) tea.Cmd {
	a.busy = true
	a.setStatus(text, StatusInfo)
	return a.spinner.Tick
}

func (a *App) stopBusy() {
	a.busy = false
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := min(120, max(20, a.mainWidth()-4))

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 4 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
