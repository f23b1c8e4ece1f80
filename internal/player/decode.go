package player

import (
	"bytes"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned when a payload is in no known container.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Format is an audio container recognised by the decoder.
type Format int

const (
	FormatUnknown Format = iota
	FormatMP3
	FormatM4A
	FormatFLAC
	FormatWAV
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatM4A:
		return "M4A"
	case FormatFLAC:
		return "FLAC"
	case FormatWAV:
		return "WAV"
	default:
		return "Unknown"
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMP3:
		return ".mp3"
	case FormatM4A:
		return ".m4a"
	case FormatFLAC:
		return ".flac"
	case FormatWAV:
		return ".wav"
	default:
		return ""
	}
}

// DetectFormat identifies the container of data. Magic bytes win; the URL
// extension and content type are only consulted when the payload is not
// recognised.
func DetectFormat(data []byte, rawURL, contentType string) Format {
	if f := sniff(data); f != FormatUnknown {
		return f
	}
	if f := formatFromExt(urlExt(rawURL)); f != FormatUnknown {
		return f
	}
	return formatFromContentType(contentType)
}

func sniff(data []byte) Format {
	if skip := id3v2Size(data); skip > 0 {
		// Some taggers prepend ID3v2 to FLAC files.
		if skip < len(data) && bytes.HasPrefix(data[skip:], []byte("fLaC")) {
			return FormatFLAC
		}
		return FormatMP3
	}
	switch {
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case len(data) >= 8 && string(data[4:8]) == "ftyp":
		return FormatM4A
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return FormatUnknown
}

func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func formatFromExt(ext string) Format {
	switch ext {
	case ".mp3":
		return FormatMP3
	case ".m4a", ".mp4", ".aac":
		return FormatM4A
	case ".flac":
		return FormatFLAC
	case ".wav":
		return FormatWAV
	}
	return FormatUnknown
}

func formatFromContentType(ct string) Format {
	ct = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	switch ct {
	case "audio/mpeg", "audio/mp3":
		return FormatMP3
	case "audio/mp4", "audio/x-m4a", "audio/aac", "video/mp4":
		return FormatM4A
	case "audio/flac", "audio/x-flac":
		return FormatFLAC
	case "audio/wav", "audio/x-wav", "audio/wave":
		return FormatWAV
	}
	return FormatUnknown
}

// id3v2Size returns the length of a leading ID3v2 tag, or 0 if there is none.
// The size is a syncsafe integer in bytes 6-9 of the header.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0
	}
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	return 10 + size
}

// memFile adapts an in-memory payload to the reader shapes the decoders want.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) memFile {
	return memFile{bytes.NewReader(data)}
}

func decode(data []byte, f Format) (beep.StreamSeekCloser, beep.Format, error) {
	switch f {
	case FormatMP3:
		return decodeMP3(newMemFile(data))
	case FormatM4A:
		s, format, _, err := decodeM4A(newMemFile(data))
		return s, format, err
	case FormatFLAC:
		if skip := id3v2Size(data); skip > 0 && skip < len(data) {
			data = data[skip:]
		}
		return flac.Decode(newMemFile(data))
	case FormatWAV:
		return wav.Decode(newMemFile(data))
	}
	return nil, beep.Format{}, ErrUnsupportedFormat
}
