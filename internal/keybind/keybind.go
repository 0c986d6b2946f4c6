// Package keybind declares the keyboard shortcuts and pointer gestures of the
// application and maps them to domain actions.
//
// Shortcuts are plain desktop.CustomShortcut values so a fyne front-end can
// register them with Canvas().AddShortcut unchanged.
package keybind

import (
	"errors"
	"fmt"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/tejashwikalptaru/etherealwaves/internal/domain"
	"github.com/tejashwikalptaru/etherealwaves/internal/ports"
)

var (
	// ErrDuplicateBinding is returned when two bindings share a trigger.
	ErrDuplicateBinding = errors.New("keybind: trigger bound twice")

	// ErrActionBoundTwice is returned when one action has two key shortcuts.
	ErrActionBoundTwice = errors.New("keybind: action has more than one shortcut")
)

// Binding maps a keyboard shortcut to an action.
type Binding struct {
	Shortcut desktop.CustomShortcut
	Action   domain.Action
}

// Gesture maps a modified pointer click to an action.
type Gesture struct {
	Button   desktop.MouseButton
	Modifier fyne.KeyModifier
	Action   domain.Action
}

type chord struct {
	key fyne.KeyName
	mod fyne.KeyModifier
}

type click struct {
	button desktop.MouseButton
	mod    fyne.KeyModifier
}

// Table is an immutable set of bindings and gestures.
type Table struct {
	bindings []Binding
	gestures []Gesture
	byChord  map[chord]domain.Action
	byClick  map[click]domain.Action
	byAction map[domain.Action]desktop.CustomShortcut
}

// New validates and indexes bindings and gestures. Each trigger must be
// unique and each action may own at most one keyboard shortcut.
func New(bindings []Binding, gestures []Gesture) (*Table, error) {
	t := &Table{
		bindings: slices.Clone(bindings),
		gestures: slices.Clone(gestures),
		byChord:  make(map[chord]domain.Action, len(bindings)),
		byClick:  make(map[click]domain.Action, len(gestures)),
		byAction: make(map[domain.Action]desktop.CustomShortcut, len(bindings)),
	}

	for _, b := range bindings {
		c := chord{key: b.Shortcut.KeyName, mod: b.Shortcut.Modifier}
		if prev, ok := t.byChord[c]; ok {
			return nil, fmt.Errorf("%w: %s for %s and %s", ErrDuplicateBinding, Format(&b.Shortcut), prev, b.Action)
		}
		if _, ok := t.byAction[b.Action]; ok {
			return nil, fmt.Errorf("%w: %s", ErrActionBoundTwice, b.Action)
		}
		t.byChord[c] = b.Action
		t.byAction[b.Action] = b.Shortcut
	}

	for _, g := range gestures {
		c := click{button: g.Button, mod: g.Modifier}
		if prev, ok := t.byClick[c]; ok {
			return nil, fmt.Errorf("%w: %s for %s and %s", ErrDuplicateBinding, FormatGesture(g), prev, g.Action)
		}
		t.byClick[c] = g.Action
	}
	return t, nil
}

func ctrl(key fyne.KeyName) desktop.CustomShortcut {
	return desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierControl}
}

func plain(key fyne.KeyName) desktop.CustomShortcut {
	return desktop.CustomShortcut{KeyName: key}
}

// DefaultBindings returns the application's keyboard shortcuts.
func DefaultBindings() []Binding {
	return []Binding{
		{ctrl(fyne.KeyU), domain.ActionUpdateLibrary},
		{ctrl(fyne.KeyQ), domain.ActionQuit},
		{ctrl(fyne.KeyN), domain.ActionNewPlaylist},
		{plain(fyne.KeyF2), domain.ActionRenamePlaylist},
		{ctrl(fyne.KeyUp), domain.ActionMovePlaylistUp},
		{ctrl(fyne.KeyDown), domain.ActionMovePlaylistDown},
		{ctrl(fyne.KeyEqual), domain.ActionZoomIn},
		{ctrl(fyne.KeyMinus), domain.ActionZoomOut},
		{plain(fyne.KeyPageUp), domain.ActionScrollUp},
		{plain(fyne.KeyPageDown), domain.ActionScrollDown},
		{ctrl(fyne.KeyComma), domain.ActionSettings},
	}
}

// DefaultGestures returns the application's modified list clicks.
func DefaultGestures() []Gesture {
	return []Gesture{
		{desktop.MouseButtonPrimary, fyne.KeyModifierControl, domain.ActionSelect},
		{desktop.MouseButtonPrimary, fyne.KeyModifierControl | fyne.KeyModifierShift, domain.ActionRangeSelect},
	}
}

// Default returns the application's binding table.
func Default() *Table {
	t, err := New(DefaultBindings(), DefaultGestures())
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the action bound to a keyboard shortcut.
func (t *Table) Lookup(s fyne.KeyboardShortcut) (domain.Action, bool) {
	a, ok := t.byChord[chord{key: s.Key(), mod: s.Mod()}]
	return a, ok
}

// LookupGesture returns the action bound to a modified click.
func (t *Table) LookupGesture(button desktop.MouseButton, mod fyne.KeyModifier) (domain.Action, bool) {
	a, ok := t.byClick[click{button: button, mod: mod}]
	return a, ok
}

// ShortcutFor returns the keyboard shortcut of an action.
func (t *Table) ShortcutFor(a domain.Action) (desktop.CustomShortcut, bool) {
	s, ok := t.byAction[a]
	return s, ok
}

// Bindings returns the keyboard bindings in declaration order.
func (t *Table) Bindings() []Binding {
	return slices.Clone(t.bindings)
}

// Gestures returns the pointer gestures in declaration order.
func (t *Table) Gestures() []Gesture {
	return slices.Clone(t.gestures)
}

// Entry is one line of a printable keybinding reference.
type Entry struct {
	Trigger string
	Action  domain.Action
	Label   string
}

// Entries lists every binding then every gesture with its localized label.
func (t *Table) Entries(tr ports.Translator) []Entry {
	entries := make([]Entry, 0, len(t.bindings)+len(t.gestures))
	for _, b := range t.bindings {
		entries = append(entries, Entry{
			Trigger: Format(&b.Shortcut),
			Action:  b.Action,
			Label:   tr.T(b.Action.MessageKey(), nil),
		})
	}
	for _, g := range t.gestures {
		entries = append(entries, Entry{
			Trigger: FormatGesture(g),
			Action:  g.Action,
			Label:   tr.T(g.Action.MessageKey(), nil),
		})
	}
	return entries
}
