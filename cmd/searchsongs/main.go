// Test program to query the song catalog without starting the TUI
package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/deeksha1106/music-app/internal/catalog"
	"github.com/deeksha1106/music-app/internal/config"
	"github.com/deeksha1106/music-app/internal/playlist"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <query>", os.Args[0])
	}
	query := strings.Join(os.Args[1:], " ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	settings := cfg.GetCatalogConfig()
	client := catalog.New(settings.URL, catalog.WithTimeout(settings.Timeout))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("Searching %s for %q...", settings.URL, query)
	res, err := client.SearchSongs(ctx, query, 1, settings.PageSize)
	if err != nil {
		log.Fatalf("Failed to search songs: %v", err)
	}
	log.Printf("Found %s songs, showing %d:", humanize.Comma(int64(res.Total)), len(res.Tracks))

	prefs := cfg.GetPlaybackConfig().QualityPreference
	for i, t := range res.Tracks {
		quality := "none"
		if src, ok := t.BestSource(prefs); ok {
			quality = src.Quality
		}
		log.Printf("  [%d] %s - %s (%s) %s - ID: %s",
			i+1, t.Artist, t.Name, playlist.FormatDuration(t.Duration), quality, t.ID)
	}

	if len(res.Tracks) == 0 {
		return
	}
	first := res.Tracks[0]
	detail, err := client.Song(ctx, first.ID)
	if err != nil {
		log.Fatalf("Failed to load song %s: %v", first.ID, err)
	}
	log.Printf("Top result: %s (%s, %s), %d sources", detail.Name, detail.Album, detail.Year, len(detail.Sources))

	similar, err := client.Suggestions(ctx, first.ID, 5)
	if err != nil {
		log.Printf("No suggestions for %s: %v", first.ID, err)
		return
	}
	log.Printf("Suggestions for %q:", first.Name)
	for _, t := range similar {
		log.Printf("  %s - %s", t.Artist, t.Name)
	}
}
