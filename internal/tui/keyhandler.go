package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/skim/internal/hotkeys"
	"github.com/pders01/skim/internal/route"
	"github.com/pders01/skim/internal/ui"
)

// KeyHandler routes key presses: first through the hotkey dispatcher, then
// to whichever dialog, overlay or component has focus.
type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	if msg.Type == tea.KeyCtrlC {
		return app, app.quit()
	}

	// The shortcuts dialog has no input; Escape closes it without also
	// closing the article underneath.
	if msg.Type == tea.KeyEsc && app.modals.Get(ui.ModalShortcuts) {
		app.modals.Set(ui.ModalShortcuts, false)
		return app, nil
	}

	res := app.dispatcher.Dispatch(hotkeys.FromTea(msg, app.focusTarget()))
	if res.Command != hotkeys.CmdNone {
		cmds := []tea.Cmd{app.runTask(res)}
		if res.Command == hotkeys.CmdRefresh && res.Task != nil {
			cmds = append(cmds, app.startBusy(MsgSyncing))
		}
		if res.Command == hotkeys.CmdCloseArticle && app.gallery.Active() {
			app.gallery.Close()
		}
		cmds = append(cmds, app.sync())
		if res.PreventDefault {
			return app, tea.Batch(cmds...)
		}
		_, next := kh.handleDefault(msg)
		return app, tea.Batch(append(cmds, next)...)
	}

	return kh.handleDefault(msg)
}

// handleDefault handles keys the dispatcher left to the focused control.
func (kh *KeyHandler) handleDefault(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	switch {
	case app.modals.Get(ui.ModalSearch):
		return app, kh.handleSearchKey(msg)
	case app.modals.Get(ui.ModalAddFeed):
		return app, kh.handleAddFeedKey(msg)
	case app.modals.Get(ui.ModalShortcuts):
		return app, nil
	case app.gallery.Active():
		return app, kh.handleGalleryKey(msg)
	}

	switch msg.String() {
	case "q":
		return app, app.quit()
	case "tab":
		app.cycleFilter()
		return app, nil
	case "ctrl+o":
		app.openGallery()
		return app, nil
	}

	return kh.delegateToCharm(msg)
}

// delegateToCharm lets the visible component handle the key: the reader
// viewport when an article is open, the article list otherwise.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	var cmd tea.Cmd

	if route.Parse(app.path).ArticleID != "" {
		app.viewport, cmd = app.viewport.Update(msg)
		return app, cmd
	}

	if msg.Type == tea.KeyEnter {
		if i, ok := app.articleList.SelectedItem().(articleItem); ok {
			return app, app.openArticle(hotkeys.BasePath(app.router.Path()), i.article)
		}
		return app, nil
	}

	app.articleList, cmd = app.articleList.Update(msg)
	return app, tea.Batch(cmd, app.loadNextPage())
}

func (kh *KeyHandler) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	app := kh.app

	switch msg.Type {
	case tea.KeyEsc:
		app.modals.Set(ui.ModalSearch, false)
		app.searchInput.Reset()
		return app.sync()
	case tea.KeyEnter:
		if i, ok := app.searchList.SelectedItem().(searchResultItem); ok {
			return app.selectSearchResult(i)
		}
		return nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		app.searchList, cmd = app.searchList.Update(msg)
		return cmd
	}

	prev := app.searchInput.Value()
	var cmd tea.Cmd
	app.searchInput, cmd = app.searchInput.Update(msg)
	if app.searchInput.Value() == prev {
		return cmd
	}

	app.searchSeq++
	seq := app.searchSeq
	wait := searchDebounce * time.Millisecond
	return tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchDebounceMsg{seq: seq} }))
}

func (kh *KeyHandler) handleAddFeedKey(msg tea.KeyMsg) tea.Cmd {
	app := kh.app

	switch msg.Type {
	case tea.KeyEsc:
		app.modals.Set(ui.ModalAddFeed, false)
		return app.sync()
	case tea.KeyTab, tea.KeyShiftTab:
		if app.feedInput.Focused() {
			app.feedInput.Blur()
			return app.categoryInput.Focus()
		}
		app.categoryInput.Blur()
		return app.feedInput.Focus()
	case tea.KeyEnter:
		return app.submitAddFeed()
	}

	var cmd tea.Cmd
	if app.categoryInput.Focused() {
		app.categoryInput, cmd = app.categoryInput.Update(msg)
	} else {
		app.feedInput, cmd = app.feedInput.Update(msg)
	}
	return cmd
}

func (kh *KeyHandler) handleGalleryKey(msg tea.KeyMsg) tea.Cmd {
	app := kh.app

	switch msg.String() {
	case "left", "h", "up":
		app.gallery.Move(-1)
	case "right", "l", "down":
		app.gallery.Move(1)
	case "enter":
		url, _ := app.gallery.Selected()
		return app.openMedia(url)
	}
	return nil
}
