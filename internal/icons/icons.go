// Package icons provides the glyphs used by the panels in three styles:
// Nerd Font, plain Unicode, and ASCII-only.
package icons

// Style selects an icon set.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the glyphs of one style.
type Icons struct {
	Play       string
	Pause      string
	Loading    string
	Shuffle    string
	RepeatAll  string
	RepeatOne  string
	Downloaded string
	Radio      string
	Volume     string
	VolumeMute string
}

var (
	nerdIcons = Icons{
		Play:       "\uf04b", // nf-fa-play
		Pause:      "\uf04c", // nf-fa-pause
		Loading:    "\uf110", // nf-fa-spinner
		Shuffle:    "󰒟",      // nf-md-shuffle
		RepeatAll:  "󰑖",      // nf-md-repeat
		RepeatOne:  "󰑘",      // nf-md-repeat_once
		Downloaded: "\uf019", // nf-fa-download
		Radio:      "󰐹",      // nf-md-radio_tower
		Volume:     "󰕾",      // nf-md-volume_high
		VolumeMute: "󰝟",      // nf-md-volume_mute
	}

	unicodeIcons = Icons{
		Play:       "▶",
		Pause:      "⏸",
		Loading:    "…",
		Shuffle:    "🔀",
		RepeatAll:  "🔁",
		RepeatOne:  "🔂",
		Downloaded: "⬇",
		Radio:      "📻",
		Volume:     "🔊",
		VolumeMute: "🔇",
	}

	noneIcons = Icons{
		Play:       ">",
		Pause:      "||",
		Loading:    "..",
		Shuffle:    "[S]",
		RepeatAll:  "[R]",
		RepeatOne:  "[1]",
		Downloaded: "[D]",
		Radio:      "[r]",
		Volume:     "vol",
		VolumeMute: "mute",
	}

	current = unicodeIcons
)

// Init selects the icon style. Unknown styles use Unicode.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}

func Play() string       { return current.Play }
func Pause() string      { return current.Pause }
func Loading() string    { return current.Loading }
func Shuffle() string    { return current.Shuffle }
func RepeatAll() string  { return current.RepeatAll }
func RepeatOne() string  { return current.RepeatOne }
func Downloaded() string { return current.Downloaded }
func Radio() string      { return current.Radio }

// Volume returns the volume glyph for level, muted at zero.
func Volume(level float64) string {
	if level <= 0 {
		return current.VolumeMute
	}
	return current.Volume
}
