package domain

// Action is a user command that a menu entry, keybinding or CLI verb triggers.
// Each value doubles as the message key of its label in the locale catalog.
type Action string

const (
	ActionAbout            Action = "about"
	ActionUpdateLibrary    Action = "update-library"
	ActionQuit             Action = "quit"
	ActionNewPlaylist      Action = "new-playlist"
	ActionRenamePlaylist   Action = "rename-playlist"
	ActionDeletePlaylist   Action = "delete-playlist"
	ActionMovePlaylistUp   Action = "move-playlist-up"
	ActionMovePlaylistDown Action = "move-playlist-down"
	ActionZoomIn           Action = "zoom-in"
	ActionZoomOut          Action = "zoom-out"
	ActionScrollUp         Action = "scroll-up"
	ActionScrollDown       Action = "scroll-down"
	ActionSettings         Action = "settings"
	ActionSelect           Action = "select"
	ActionRangeSelect      Action = "range-select"
)

// Actions lists every action in menu order.
func Actions() []Action {
	return []Action{
		ActionUpdateLibrary,
		ActionQuit,
		ActionNewPlaylist,
		ActionRenamePlaylist,
		ActionDeletePlaylist,
		ActionMovePlaylistUp,
		ActionMovePlaylistDown,
		ActionZoomIn,
		ActionZoomOut,
		ActionScrollUp,
		ActionScrollDown,
		ActionSettings,
		ActionSelect,
		ActionRangeSelect,
		ActionAbout,
	}
}

// MessageKey returns the catalog key of the action label.
func (a Action) MessageKey() string {
	return string(a)
}
