package downloads

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// idSuffix matches the "[id]" FileName appends before the extension.
var idSuffix = regexp.MustCompile(`\[([^\[\]]+)\]$`)

var audioExts = map[string]bool{".mp3": true, ".m4a": true, ".flac": true, ".wav": true}

// Rescan records audio files in the download folder that have no record,
// such as files copied in by hand, using their embedded tags. It returns
// the number of records added.
func (m *Manager) Rescan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(m.folder)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	added := 0
	err = m.update(ctx, func(recs map[string]Record) {
		known := make(map[string]bool, len(recs))
		for _, r := range recs {
			known[r.Path] = true
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if !audioExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			path := filepath.Join(m.folder, e.Name())
			if known[path] {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			track := m.trackFromFile(path)
			if _, taken := recs[track.ID]; taken {
				continue
			}
			recs[track.ID] = Record{
				Track:        track,
				Path:         path,
				Size:         info.Size(),
				DownloadedAt: info.ModTime(),
			}
			added++
		}
	})
	if added > 0 {
		m.log.Info("rescanned downloads", "added", added)
	}
	return added, err
}

func (m *Manager) trackFromFile(path string) playlist.Track {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	id := "local:" + base
	name := base
	if match := idSuffix.FindStringSubmatchIndex(base); match != nil {
		id = base[match[2]:match[3]]
		name = strings.TrimSpace(base[:match[0]])
	}
	track := playlist.Track{ID: id, Name: name}

	tags, err := readTags(path)
	if err != nil {
		m.log.Debug("no tags", "path", path, "error", err)
		return track
	}
	if tags.Title != "" {
		track.Name = tags.Title
	}
	track.Artist = tags.Artist
	track.Album = tags.Album
	if tags.Year > 0 {
		track.Year = strconv.Itoa(tags.Year)
	}
	return track
}
