package keymap

// Contexts group bindings for the help popup.
const (
	ContextGlobal    = "global"
	ContextPlayback  = "playback"
	ContextResults   = "results"
	ContextQueue     = "queue"
	ContextDownloads = "downloads"
	ContextLyrics    = "lyrics"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Keys        []string
	Action      Action
	Description string
	Context     string
}

// All lists every binding. Panel bindings share keys across contexts; the
// focused panel decides which one applies.
var All = []Binding{
	{[]string{"q", "ctrl+c"}, ActionQuit, "Quit", ContextGlobal},
	{[]string{"tab"}, ActionSwitchFocus, "Switch focus", ContextGlobal},
	{[]string{"/"}, ActionSearch, "Search songs", ContextGlobal},
	{[]string{"f1"}, ActionViewSearch, "Search view", ContextGlobal},
	{[]string{"f2"}, ActionViewDownloads, "Downloads view", ContextGlobal},
	{[]string{"f3"}, ActionViewLyrics, "Lyrics view", ContextGlobal},
	{[]string{"?"}, ActionHelp, "Show help", ContextGlobal},

	{[]string{" "}, ActionPlayPause, "Play/pause", ContextPlayback},
	{[]string{"n"}, ActionNextTrack, "Next track", ContextPlayback},
	{[]string{"p"}, ActionPrevTrack, "Previous track / restart", ContextPlayback},
	{[]string{"right", "l"}, ActionSeekForward, "Seek +5s", ContextPlayback},
	{[]string{"left", "h"}, ActionSeekBack, "Seek -5s", ContextPlayback},
	{[]string{"shift+right", "L"}, ActionSeekForwardFar, "Seek +30s", ContextPlayback},
	{[]string{"shift+left", "H"}, ActionSeekBackFar, "Seek -30s", ContextPlayback},
	{[]string{"r"}, ActionCycleRepeat, "Cycle repeat mode", ContextPlayback},
	{[]string{"s"}, ActionToggleShuffle, "Toggle shuffle", ContextPlayback},
	{[]string{"+", "="}, ActionVolumeUp, "Volume up", ContextPlayback},
	{[]string{"-"}, ActionVolumeDown, "Volume down", ContextPlayback},
	{[]string{"ctrl+r"}, ActionToggleRadio, "Toggle radio", ContextPlayback},

	{[]string{"enter"}, ActionSelect, "Play from here", ContextResults},
	{[]string{"a"}, ActionAdd, "Add to queue", ContextResults},
	{[]string{"D"}, ActionDownload, "Download", ContextResults},

	{[]string{"enter"}, ActionSelect, "Play track", ContextQueue},
	{[]string{"d", "delete"}, ActionDelete, "Remove from queue", ContextQueue},
	{[]string{"shift+k", "K"}, ActionMoveUp, "Move up", ContextQueue},
	{[]string{"shift+j", "J"}, ActionMoveDown, "Move down", ContextQueue},
	{[]string{"c"}, ActionClear, "Clear queue", ContextQueue},
	{[]string{"D"}, ActionDownload, "Download", ContextQueue},

	{[]string{"enter"}, ActionSelect, "Play from here", ContextDownloads},
	{[]string{"a"}, ActionAdd, "Add to queue", ContextDownloads},
	{[]string{"d", "delete"}, ActionDelete, "Delete download", ContextDownloads},
	{[]string{"R"}, ActionRescan, "Rescan folder", ContextDownloads},

	{[]string{"k", "up"}, ActionScrollUp, "Scroll up", ContextLyrics},
	{[]string{"j", "down"}, ActionScrollDown, "Scroll down", ContextLyrics},
	{[]string{"g", "home"}, ActionScrollTop, "Scroll to top", ContextLyrics},
	{[]string{"G", "end"}, ActionScrollEnd, "Scroll to end", ContextLyrics},
	{[]string{"c"}, ActionFollow, "Follow playback", ContextLyrics},
}

// ByContext returns the bindings of one context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
