package downloads

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sorrow446/go-mp4tag"
	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/deeksha1106/music-app/internal/playlist"
)

// writeTags embeds track metadata and cover art in the file at path.
// Formats without a writer are left untouched.
func writeTags(path string, track playlist.Track, cover []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return writeMP3Tags(path, track, cover)
	case ".m4a":
		return writeM4ATags(path, track, cover)
	}
	return nil
}

func writeMP3Tags(path string, track playlist.Track, cover []byte) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer t.Close()

	t.SetVersion(4)
	t.SetDefaultEncoding(id3v2.EncodingUTF8)
	t.DeleteAllFrames()

	t.SetTitle(track.Name)
	t.SetArtist(track.Artist)
	t.SetAlbum(track.Album)
	if track.Year != "" {
		t.AddTextFrame("TDRC", id3v2.EncodingUTF8, track.Year)
	}
	t.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: "Song ID",
		Value:       track.ID,
	})
	if len(cover) > 0 {
		t.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    imageMIME(cover),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     cover,
		})
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func writeM4ATags(path string, track playlist.Track, cover []byte) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	tags := &mp4tag.MP4Tags{
		Title:  track.Name,
		Artist: track.Artist,
		Album:  track.Album,
		Date:   track.Year,
		Custom: map[string]string{"SONG ID": track.ID},
	}
	if len(cover) > 0 {
		tags.Pictures = []*mp4tag.MP4Picture{{Data: cover}}
	}
	if err := mp4.Write(tags, nil); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func imageMIME(data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}

// fileTags is what readTags recovers from a file.
type fileTags struct {
	Title  string
	Artist string
	Album  string
	Year   int
}

func readTags(path string) (fileTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileTags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fileTags{}, fmt.Errorf("read tags: %w", err)
	}
	return fileTags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Year:   m.Year(),
	}, nil
}
