package ui

import "sync"

// Gallery is the image overlay over the reader. While it is active it owns
// Escape.
type Gallery struct {
	mu       sync.RWMutex
	urls     []string
	selected int
	active   bool
}

func NewGallery() *Gallery {
	return &Gallery{}
}

// Open shows urls. Opening with no urls leaves the gallery closed.
func (g *Gallery) Open(urls []string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(urls) == 0 {
		return false
	}
	g.urls = append([]string(nil), urls...)
	g.selected = 0
	g.active = true
	return true
}

func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = false
	g.urls = nil
	g.selected = 0
}

func (g *Gallery) Active() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

func (g *Gallery) URLs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.urls...)
}

// Selected returns the highlighted URL and its index.
func (g *Gallery) Selected() (string, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.active || len(g.urls) == 0 {
		return "", -1
	}
	return g.urls[g.selected], g.selected
}

// Move shifts the selection by delta, clamped to the list.
func (g *Gallery) Move(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.urls) == 0 {
		return
	}
	g.selected = max(0, min(len(g.urls)-1, g.selected+delta))
}
