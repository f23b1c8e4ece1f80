package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeksha1106/music-app/internal/app"
	"github.com/deeksha1106/music-app/internal/catalog"
	"github.com/deeksha1106/music-app/internal/config"
	"github.com/deeksha1106/music-app/internal/downloads"
	"github.com/deeksha1106/music-app/internal/icons"
	"github.com/deeksha1106/music-app/internal/lastfm"
	"github.com/deeksha1106/music-app/internal/logging"
	"github.com/deeksha1106/music-app/internal/lrclib"
	"github.com/deeksha1106/music-app/internal/lyrics"
	"github.com/deeksha1106/music-app/internal/mpris"
	"github.com/deeksha1106/music-app/internal/notify"
	"github.com/deeksha1106/music-app/internal/player"
	"github.com/deeksha1106/music-app/internal/radio"
	"github.com/deeksha1106/music-app/internal/session"
	"github.com/deeksha1106/music-app/internal/state"
	"github.com/deeksha1106/music-app/internal/stderr"
	lyricsview "github.com/deeksha1106/music-app/internal/ui/lyrics"
)

// keyLastfmSession stores the session key obtained by "lastfm-login".
const keyLastfmSession = "lastfm.session_key"

const lastfmAuthTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "lastfm-login" {
		if err := lastfmLogin(cfg); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logPath, err := logging.DefaultPath()
	if err != nil {
		return fmt.Errorf("locate log file: %w", err)
	}
	log, logFile, err := logging.Setup(logPath, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return err
	}
	defer logFile.Close()

	icons.Init(cfg.IconStyle())

	// Must run before the audio device is opened.
	capture, err := stderr.Start(log.With("component", "stderr"))
	if err != nil {
		log.Warn("stderr capture unavailable", "error", err)
	} else {
		defer capture.Stop()
	}

	store, err := state.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pb := cfg.GetPlaybackConfig()
	loader := player.NewBeepLoader(
		player.WithStatusInterval(pb.StatusInterval),
		player.WithVolume(pb.Volume),
		player.WithLoaderLogger(log.With("component", "player")),
	)
	sess := session.New(session.Config{
		Store:             store,
		Loader:            loader,
		Logger:            log,
		QualityPreference: pb.QualityPreference,
		RestartThreshold:  pb.RestartThreshold,
		SaveDebounce:      cfg.SaveDebounce(),
	})
	sess.Start(ctx)
	defer sess.Close()

	cat := cfg.GetCatalogConfig()
	catalogClient := catalog.New(cat.URL, catalog.WithTimeout(cat.Timeout))

	dl := downloads.New(store, cfg.DownloadFolder(),
		downloads.WithQualityPreference(pb.QualityPreference),
		downloads.WithLogger(log.With("component", "downloads")),
	)
	if missing, err := dl.VerifyOnDisk(ctx); err != nil {
		log.Warn("verify downloads", "error", err)
	} else if len(missing) > 0 {
		log.Info("dropped downloads missing on disk", "count", len(missing))
	}
	if n, err := dl.Rescan(ctx); err != nil {
		log.Warn("rescan downloads", "error", err)
	} else if n > 0 {
		log.Info("adopted untracked downloads", "count", n)
	}

	startIntegrations(ctx, cfg, sess, store, log)

	var lyricsSource lyricsview.Fetcher
	if cfg.LyricsEnabled() {
		lyricsSource = lyrics.NewSource(lrclib.New(lrclib.WithBaseURL(cfg.LyricsURL())), lyrics.DefaultCacheDir())
	}

	var lines <-chan string
	if capture != nil {
		lines = capture.Lines()
	}
	m := app.New(app.Deps{
		Context:   ctx,
		Session:   sess,
		Catalog:   catalogClient,
		Downloads: dl,
		Lyrics:    lyricsSource,
		Radio:     newRadio(cfg, catalogClient, store, log),
		Stderr:    lines,
		PageSize:  cat.PageSize,
		Logger:    log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func newRadio(cfg *config.Config, source radio.Suggester, store state.Store, log *slog.Logger) *radio.Radio {
	rc := cfg.GetRadioConfig()
	settings := radio.DefaultConfig()
	settings.BufferSize = rc.BufferSize
	settings.FetchSize = rc.FetchSize
	settings.CacheTTL = time.Duration(rc.CacheTTLHours) * time.Hour
	settings.TitleThreshold = rc.TitleThreshold
	settings.MaxArtistRepeat = rc.MaxArtistRepeat
	settings.DecayFactor = rc.DecayFactor

	r := radio.New(source, store, settings, log.With("component", "radio"))
	if rc.Enabled {
		r.Toggle()
	}
	return r
}

// startIntegrations runs the optional desktop and scrobbling side effects.
// Each one subscribes to playback on its own; failures are logged only.
func startIntegrations(ctx context.Context, cfg *config.Config, sess *session.Session, store state.Store, log *slog.Logger) {
	if cfg.MPRISEnabled() {
		adapter, err := mpris.New(sess)
		if err != nil {
			log.Warn("mpris unavailable", "error", err)
		} else {
			go func() {
				<-ctx.Done()
				_ = adapter.Close()
			}()
		}
	}

	if cfg.NotificationsEnabled() {
		n, err := notify.New(notify.DefaultApp)
		if err != nil {
			log.Warn("notifications unavailable", "error", err)
		} else {
			art := notify.NewArtworkCache(
				filepath.Join(xdg.CacheHome, "music-app", "artwork"),
				&http.Client{Timeout: 10 * time.Second},
			)
			tn := notify.NewTrackNotifier(n, art, log.With("component", "notify"))
			go tn.Run(ctx, sess.Playback().Subscribe())
		}
	}

	if cfg.HasLastfmConfig() {
		key := cfg.Lastfm.SessionKey
		if key == "" {
			if raw, err := store.Get(ctx, keyLastfmSession); err == nil {
				key = string(raw)
			} else if !errors.Is(err, state.ErrNotFound) {
				log.Warn("read lastfm session", "error", err)
			}
		}
		if key == "" {
			log.Info("lastfm configured but not linked, run: music-app lastfm-login")
			return
		}
		client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		client.SetSessionKey(key)
		sc := lastfm.NewScrobbler(client, log.With("component", "lastfm"))
		go sc.Run(ctx, sess.Playback().Subscribe())
	}
}

// lastfmLogin runs the desktop auth flow and stores the session key.
func lastfmLogin(cfg *config.Config) error {
	if !cfg.HasLastfmConfig() {
		return errors.New("set lastfm.api_key and lastfm.api_secret in the config first")
	}
	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	token, err := client.GetToken()
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	srv, err := lastfm.StartAuthServer(lastfm.DefaultCallbackAddr)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer srv.Shutdown()

	authURL := client.AuthURL(token, srv.CallbackURL())
	fmt.Printf("Authorize music-app in your browser:\n  %s\n", authURL)
	if err := lastfm.OpenBrowser(authURL); err != nil {
		fmt.Printf("Could not open a browser (%v), open the link by hand.\n", err)
	}

	ctx := context.Background()
	if got := lastfm.WaitForToken(ctx, srv.Tokens(), lastfmAuthTimeout); got != "" {
		token = got
	}
	username, key, err := client.GetSession(token)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	store, err := state.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer store.Close()
	if err := store.Set(ctx, keyLastfmSession, []byte(key)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("Linked Last.fm account %s\n", username)
	return nil
}
