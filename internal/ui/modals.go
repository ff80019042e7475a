// Package ui holds overlay visibility state shared by the TUI and the
// hotkey dispatcher.
package ui

import "sync"

// Modal names one of the dialogs that can overlay the main view.
type Modal int

const (
	ModalSearch Modal = iota
	ModalAddFeed
	ModalShortcuts
)

func (m Modal) String() string {
	switch m {
	case ModalSearch:
		return "search"
	case ModalAddFeed:
		return "add-feed"
	case ModalShortcuts:
		return "shortcuts"
	default:
		return "unknown"
	}
}

// Modals is a set of independent visibility flags.
type Modals struct {
	mu      sync.RWMutex
	visible map[Modal]bool
}

func NewModals() *Modals {
	return &Modals{visible: make(map[Modal]bool)}
}

func (m *Modals) Get(modal Modal) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible[modal]
}

func (m *Modals) Set(modal Modal, open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible[modal] = open
}

// Top returns the first open modal in declaration order.
func (m *Modals) Top() (Modal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, modal := range []Modal{ModalSearch, ModalAddFeed, ModalShortcuts} {
		if m.visible[modal] {
			return modal, true
		}
	}
	return 0, false
}

// CloseAll hides every modal.
func (m *Modals) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.visible)
}
