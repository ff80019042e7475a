// Package hotkeys maps single key presses to the reader's fixed command set.
package hotkeys

import (
	"strings"
	"unicode/utf8"
)

// Target is the kind of control that had focus when a key was pressed.
type Target int

const (
	TargetSurface Target = iota
	TargetInput
	TargetTextArea
	TargetEditable
)

// IsTextEntry reports whether keys typed into the target are text.
func (t Target) IsTextEntry() bool {
	return t == TargetInput || t == TargetTextArea || t == TargetEditable
}

// Event is a key press. Key is a single character ("j", "N", "?") or a
// named key ("escape").
type Event struct {
	Key    string
	Shift  bool
	Ctrl   bool
	Alt    bool
	Meta   bool
	Target Target
}

// Key is a normalized key identity.
type Key string

const (
	KeyShortcuts Key = "shift+?"
	KeyAddFeed   Key = "shift+n"
	KeyEscape    Key = "escape"
)

// Classify normalizes ev. It reports false for events that must be ignored
// entirely: keys typed into a text-entry control.
func Classify(ev Event) (Key, bool) {
	if ev.Target.IsTextEntry() {
		return "", false
	}

	// The two shifted combinations win over the single-character table.
	if ev.Shift {
		switch ev.Key {
		case "?":
			return KeyShortcuts, true
		case "N", "n":
			return KeyAddFeed, true
		}
	}

	name := strings.ToLower(ev.Key)
	switch {
	case name == "esc" || name == "escape":
		return KeyEscape, true
	case utf8.RuneCountInString(name) == 1:
		return Key(name), true
	case name == "":
		return "", false
	default:
		return Key(name), true
	}
}
