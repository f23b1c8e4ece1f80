// Package config loads the TOML configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "music-app"

type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Playback  PlaybackConfig  `koanf:"playback"`
	Storage   StorageConfig   `koanf:"storage"`
	Downloads DownloadsConfig `koanf:"downloads"`

	// Last.fm scrobbling (enabled when api_key and api_secret are set)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Notifications *bool     `koanf:"notifications"` // default true
	MPRIS         *bool     `koanf:"mpris"`         // default true
	Log           LogConfig `koanf:"log"`
	UI            UIConfig  `koanf:"ui"`

	Lyrics LyricsConfig `koanf:"lyrics"`

	// Radio mode (extends the queue with catalog suggestions)
	Radio RadioConfig `koanf:"radio"`
}

// CatalogConfig points at the song catalog API.
type CatalogConfig struct {
	URL            string `koanf:"url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	PageSize       int    `koanf:"page_size"`
}

// PlaybackConfig tunes the playback coordinator and audio output.
type PlaybackConfig struct {
	QualityPreference       []string `koanf:"quality_preference"` // best first
	RestartThresholdSeconds int      `koanf:"restart_threshold_seconds"`
	StatusIntervalMs        int      `koanf:"status_interval_ms"`
	Volume                  *float64 `koanf:"volume"` // 0..1
}

// StorageConfig locates the state database.
type StorageConfig struct {
	DBPath         string `koanf:"db_path"`
	SaveDebounceMs int    `koanf:"save_debounce_ms"`
}

// DownloadsConfig locates downloaded songs.
type DownloadsConfig struct {
	Folder string `koanf:"folder"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"`
}

// UIConfig tunes the terminal interface.
type UIConfig struct {
	Icons string `koanf:"icons"` // "nerd", "unicode", "none"
}

// LyricsConfig controls online lyrics lookup.
type LyricsConfig struct {
	Enabled *bool  `koanf:"enabled"` // default true
	URL     string `koanf:"url"`     // lrclib API base
}

// RadioConfig holds radio mode configuration.
type RadioConfig struct {
	Enabled         bool    `koanf:"enabled"`           // start with radio on
	BufferSize      int     `koanf:"buffer_size"`       // Tracks added per fill (1-20, default: 5)
	FetchSize       int     `koanf:"fetch_size"`        // Suggestions requested per seed (default: 20)
	CacheTTLHours   int     `koanf:"cache_ttl_hours"`   // Suggestion cache TTL (default: 24)
	TitleThreshold  float64 `koanf:"title_threshold"`   // Fuzzy title match threshold (0.0-1.0, default: 0.9)
	MaxArtistRepeat int     `koanf:"max_artist_repeat"` // Per artist, recent plays included (default: 2)
	DecayFactor     float64 `koanf:"decay_factor"`      // Score multiplier for recently played (default: 0.1)
}

// Defaults.
const (
	DefaultCatalogURL = "https://saavn.sumit.co"
	DefaultLyricsURL  = "https://lrclib.net/api"
	DefaultTimeout    = 10 * time.Second
	DefaultPageSize   = 20

	DefaultRestartThreshold = 3 * time.Second
	DefaultStatusInterval   = 500 * time.Millisecond
)

// DefaultQualityPreference orders stream bitrates from best to worst.
var DefaultQualityPreference = []string{"320kbps", "160kbps", "96kbps", "48kbps", "12kbps"}

// Load reads the user config then ./config.toml; later files win.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given TOML files in order, skipping missing ones.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Catalog.URL = strings.TrimSuffix(cfg.Catalog.URL, "/")
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Downloads.Folder = expandPath(cfg.Downloads.Folder)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/music-app/config.toml
	paths = append(paths, filepath.Join(xdg.ConfigHome, appName, "config.toml"))

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// MPRISEnabled reports whether the MPRIS adapter should run.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// LyricsEnabled reports whether lyrics are looked up online.
func (c *Config) LyricsEnabled() bool {
	return c.Lyrics.Enabled == nil || *c.Lyrics.Enabled
}

// LyricsURL returns the lrclib API base, defaulting to lrclib.net.
func (c *Config) LyricsURL() string {
	if c.Lyrics.URL == "" {
		return DefaultLyricsURL
	}
	return strings.TrimSuffix(c.Lyrics.URL, "/")
}

// CatalogSettings is CatalogConfig with defaults applied.
type CatalogSettings struct {
	URL      string
	Timeout  time.Duration
	PageSize int
}

// GetCatalogConfig returns the catalog configuration with defaults applied.
func (c *Config) GetCatalogConfig() CatalogSettings {
	s := CatalogSettings{
		URL:      c.Catalog.URL,
		Timeout:  time.Duration(c.Catalog.TimeoutSeconds) * time.Second,
		PageSize: c.Catalog.PageSize,
	}
	if s.URL == "" {
		s.URL = DefaultCatalogURL
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.PageSize <= 0 || s.PageSize > 100 {
		s.PageSize = DefaultPageSize
	}
	return s
}

// PlaybackSettings is PlaybackConfig with defaults applied.
type PlaybackSettings struct {
	QualityPreference []string
	RestartThreshold  time.Duration
	StatusInterval    time.Duration
	Volume            float64
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackSettings {
	p := c.Playback
	s := PlaybackSettings{
		QualityPreference: p.QualityPreference,
		RestartThreshold:  time.Duration(p.RestartThresholdSeconds) * time.Second,
		StatusInterval:    time.Duration(p.StatusIntervalMs) * time.Millisecond,
		Volume:            1,
	}
	if len(s.QualityPreference) == 0 {
		s.QualityPreference = DefaultQualityPreference
	}
	if s.RestartThreshold <= 0 {
		s.RestartThreshold = DefaultRestartThreshold
	}
	if s.StatusInterval <= 0 {
		s.StatusInterval = DefaultStatusInterval
	}
	if p.Volume != nil {
		s.Volume = min(max(*p.Volume, 0), 1)
	}
	return s
}

// SaveDebounce is the queue writer's coalescing delay.
func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(max(c.Storage.SaveDebounceMs, 0)) * time.Millisecond
}

// DownloadFolder returns where downloads are written, defaulting to
// ~/Music/music-app.
func (c *Config) DownloadFolder() string {
	if c.Downloads.Folder != "" {
		return c.Downloads.Folder
	}
	return filepath.Join(xdg.UserDirs.Music, appName)
}

// LogLevel returns the configured level name, defaulting to "info".
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Log.Level)
}

// IconStyle returns the configured icon style, defaulting to "unicode".
func (c *Config) IconStyle() string {
	switch s := strings.ToLower(c.UI.Icons); s {
	case "nerd", "unicode", "none":
		return s
	}
	return "unicode"
}

// GetRadioConfig returns the radio configuration with defaults applied.
func (c *Config) GetRadioConfig() RadioConfig {
	cfg := c.Radio

	// Apply defaults
	if cfg.BufferSize <= 0 || cfg.BufferSize > 20 {
		cfg.BufferSize = 5
	}
	if cfg.FetchSize <= 0 {
		cfg.FetchSize = 20
	}
	if cfg.CacheTTLHours <= 0 {
		cfg.CacheTTLHours = 24
	}
	if cfg.TitleThreshold <= 0 || cfg.TitleThreshold > 1 {
		cfg.TitleThreshold = 0.9
	}
	if cfg.MaxArtistRepeat <= 0 {
		cfg.MaxArtistRepeat = 2
	}
	if cfg.DecayFactor <= 0 || cfg.DecayFactor > 1 {
		cfg.DecayFactor = 0.1
	}

	return cfg
}
