//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCatalogSearch,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpCatalogSearch,
			err:      errors.New("connection refused"),
			expected: "Failed to search songs: connection refused",
		},
		{
			name:     "queue operation",
			op:       OpQueueRemove,
			err:      errors.New("queue index out of range"),
			expected: "Failed to remove from queue: queue index out of range",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no playable source"),
			expected: "Failed to start playback: no playable source",
		},
		{
			name:     "download operation",
			op:       OpDownload,
			err:      errors.New("disk full"),
			expected: "Failed to download song: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			context:  "Kesariya",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpPlaybackStart,
			context:  "Kesariya",
			err:      errors.New("status 403"),
			expected: "Failed to start playback 'Kesariya': status 403",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpDownload,
			context:  "",
			err:      errors.New("status 404"),
			expected: "Failed to download song: status 404",
		},
		{
			name:     "search with query context",
			op:       OpCatalogSearch,
			context:  "arijit",
			err:      errors.New("timeout"),
			expected: "Failed to search songs 'arijit': timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpCatalogSearch, OpCatalogSong, OpCatalogSuggestions,
		OpQueueLoad, OpQueueSave, OpQueueAdd, OpQueueRemove, OpQueueMove,
		OpPlaybackStart, OpPlaybackToggle, OpPlaybackSeek, OpPlaybackNext, OpPlaybackPrev,
		OpDownload, OpDownloadDelete, OpDownloadList,
		OpLastfmAuth, OpLastfmScrobble, OpLastfmNowPlaying,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
