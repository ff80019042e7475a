package hotkeys

import "github.com/pders01/skim/internal/storage"

// IndexOf returns the position of active in list by ID, or -1.
func IndexOf(list []*storage.Article, active *storage.Article) int {
	if active == nil {
		return -1
	}
	for i, a := range list {
		if a != nil && a.ID == active.ID {
			return i
		}
	}
	return -1
}
