// Package keymap defines key bindings and resolves keys to actions.
package keymap

// Action is a user-triggerable action.
type Action string

const (
	// Global
	ActionQuit          Action = "quit"
	ActionSwitchFocus   Action = "switch_focus"
	ActionSearch        Action = "search"
	ActionHelp          Action = "help"
	ActionViewSearch    Action = "view_search"
	ActionViewDownloads Action = "view_downloads"
	ActionViewLyrics    Action = "view_lyrics"

	// Playback
	ActionPlayPause      Action = "play_pause"
	ActionNextTrack      Action = "next_track"
	ActionPrevTrack      Action = "prev_track"
	ActionSeekForward    Action = "seek_forward"
	ActionSeekBack       Action = "seek_back"
	ActionSeekForwardFar Action = "seek_forward_far"
	ActionSeekBackFar    Action = "seek_back_far"
	ActionCycleRepeat    Action = "cycle_repeat"
	ActionToggleShuffle  Action = "toggle_shuffle"
	ActionVolumeUp       Action = "volume_up"
	ActionVolumeDown     Action = "volume_down"
	ActionToggleRadio    Action = "toggle_radio"

	// Lists
	ActionSelect   Action = "select"   // play from the item
	ActionAdd      Action = "add"      // append to the queue
	ActionDownload Action = "download" // save for offline playback
	ActionDelete   Action = "delete"   // context decides what is removed
	ActionMoveUp   Action = "move_item_up"
	ActionMoveDown Action = "move_item_down"
	ActionClear    Action = "clear"
	ActionRescan   Action = "rescan"

	// Lyrics
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
	ActionScrollTop  Action = "scroll_top"
	ActionScrollEnd  Action = "scroll_end"
	ActionFollow     Action = "follow"
)
