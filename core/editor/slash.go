package editor

import (
	"strings"

	"github.com/trezcool/daftari/core/document"
)

// SlashMenu is the block-type picker opened by typing "/" in an empty block.
// It filters the registry's type list and tracks keyboard selection; it never
// mutates documents itself.
type SlashMenu struct {
	open     bool
	anchor   Point
	query    string
	selected int
}

func (m *SlashMenu) IsOpen() bool { return m.open }
func (m *SlashMenu) Query() string { return m.query }
func (m *SlashMenu) SelectedIndex() int { return m.selected }

// Open shows the menu anchored at the trigger point with an empty query.
func (m *SlashMenu) Open(anchor Point) {
	m.open = true
	m.anchor = anchor
	m.query = ""
	m.selected = 0
}

// Close hides the menu with no side effects; this is the picker's only
// cancellation semantic.
func (m *SlashMenu) Close() {
	*m = SlashMenu{}
}

// SetQuery updates the filter text and resets the selection.
func (m *SlashMenu) SetQuery(q string) {
	m.query = q
	m.selected = 0
}

// Matches returns the block kinds whose label or identifier contains the
// query, case-insensitively. Registry category grouping and within-category
// order are retained; filtering never re-sorts.
func (m *SlashMenu) Matches() []document.TypeInfo {
	all := document.AllTypes()
	if m.query == "" {
		return all
	}
	q := strings.ToLower(m.query)
	matches := make([]document.TypeInfo, 0, len(all))
	for _, info := range all {
		if strings.Contains(strings.ToLower(info.Label), q) ||
			strings.Contains(strings.ToLower(string(info.Type)), q) {
			matches = append(matches, info)
		}
	}
	return matches
}

// Selected returns the currently highlighted entry of the filtered list.
func (m *SlashMenu) Selected() (document.TypeInfo, bool) {
	matches := m.Matches()
	if len(matches) == 0 {
		return document.TypeInfo{}, false
	}
	if m.selected >= len(matches) {
		return matches[len(matches)-1], true
	}
	return matches[m.selected], true
}

// HandleKey applies menu navigation for a key press and reports whether the
// key was consumed. Selection commit and closing are the Controller's job.
func (m *SlashMenu) HandleKey(key KeyEvent) bool {
	if !m.open {
		return false
	}
	n := len(m.Matches())
	if n == 0 {
		return false
	}
	switch key.Key {
	case "ArrowDown", "Tab":
		m.selected = (m.selected + 1) % n
	case "ArrowUp":
		m.selected = (m.selected - 1 + n) % n
	case "Home":
		m.selected = 0
	case "End":
		m.selected = n - 1
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// direct-select shortcut: Nth item of the filtered list
		nth := int(key.Key[0] - '0')
		if nth <= n {
			m.selected = nth - 1
		}
	default:
		return false
	}
	return true
}

// Position places the menu immediately below the anchor; when that would
// overflow the viewport's bottom edge it flips above instead. The horizontal
// position is clamped to keep the menu fully within the viewport width.
func (m *SlashMenu) Position(menu, viewport Size) Point {
	pos := Point{X: m.anchor.X, Y: m.anchor.Y}
	if pos.Y+menu.H > viewport.H {
		pos.Y = m.anchor.Y - menu.H
		if pos.Y < 0 {
			pos.Y = 0
		}
	}
	if pos.X+menu.W > viewport.W {
		pos.X = viewport.W - menu.W
	}
	if pos.X < 0 {
		pos.X = 0
	}
	return pos
}
