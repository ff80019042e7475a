package hotkeys

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// shiftedSymbols are produced with shift held on a US layout.
const shiftedSymbols = `~!@#$%^&*()_+{}|:"<>?`

// FromTea converts a Bubble Tea key message into an Event. Terminals do not
// report shift for printable keys, so upper-case letters and shifted
// symbols imply it.
func FromTea(msg tea.KeyMsg, target Target) Event {
	ev := Event{Target: target, Alt: msg.Alt}

	s := msg.String()
	for {
		switch {
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Alt = true
			s = s[len("alt+"):]
			continue
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Ctrl = true
			s = s[len("ctrl+"):]
			continue
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Shift = true
			s = s[len("shift+"):]
			continue
		}
		break
	}

	if s == "esc" {
		s = "escape"
	}
	if r := []rune(s); len(r) == 1 && (unicode.IsUpper(r[0]) || strings.ContainsRune(shiftedSymbols, r[0])) {
		ev.Shift = true
	}
	ev.Key = s
	return ev
}
