package keybind

import (
	"slices"
	"sync"

	"fyne.io/fyne/v2"
)

// Selection tracks selected rows of a list under the click contract:
// a plain click selects one row, Ctrl+click toggles a row and
// Ctrl+Shift+click adds the inclusive range between the anchor and the row.
// The zero value is an empty selection ready for use.
type Selection struct {
	mu        sync.Mutex
	selected  map[int]struct{}
	anchor    int
	hasAnchor bool
}

// Click applies a click on row index with the held modifiers.
func (s *Selection) Click(index int, mod fyne.KeyModifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		s.selected = make(map[int]struct{})
	}

	ctrlHeld := mod&fyne.KeyModifierControl != 0
	shiftHeld := mod&fyne.KeyModifierShift != 0

	switch {
	case ctrlHeld && shiftHeld && s.hasAnchor:
		lo, hi := min(s.anchor, index), max(s.anchor, index)
		for i := lo; i <= hi; i++ {
			s.selected[i] = struct{}{}
		}
		return
	case ctrlHeld:
		if _, ok := s.selected[index]; ok {
			delete(s.selected, index)
		} else {
			s.selected[index] = struct{}{}
		}
	default:
		clear(s.selected)
		s.selected[index] = struct{}{}
	}
	s.anchor = index
	s.hasAnchor = true
}

// Selected returns the selected rows in ascending order.
func (s *Selection) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]int, 0, len(s.selected))
	for i := range s.selected {
		rows = append(rows, i)
	}
	slices.Sort(rows)
	return rows
}

// IsSelected reports whether row index is selected.
func (s *Selection) IsSelected(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[index]
	return ok
}

// Clear empties the selection and forgets the anchor.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.selected)
	s.hasAnchor = false
}
