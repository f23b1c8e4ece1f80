package notify

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxArtworkBytes bounds a single cover download.
const maxArtworkBytes = 10 << 20

// ArtworkCache downloads cover images to a directory so they can be shown
// as notification icons, which must be local files.
type ArtworkCache struct {
	dir    string
	client *http.Client
}

// NewArtworkCache stores images under dir. A nil client uses
// http.DefaultClient.
func NewArtworkCache(dir string, client *http.Client) *ArtworkCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &ArtworkCache{dir: dir, client: client}
}

// Path returns a local copy of the image at url, downloading it on first use.
func (c *ArtworkCache) Path(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", nil
	}
	path := filepath.Join(c.dir, artworkName(url))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("artwork request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch artwork: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch artwork: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artwork dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.dir, ".artwork-*")
	if err != nil {
		return "", fmt.Errorf("create artwork file: %w", err)
	}
	_, err = io.Copy(tmp, io.LimitReader(resp.Body, maxArtworkBytes))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write artwork: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write artwork: %w", err)
	}
	return path, nil
}

func artworkName(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	ext := ".jpg"
	if strings.HasSuffix(strings.ToLower(url), ".png") {
		ext = ".png"
	}
	return fmt.Sprintf("%x%s", h.Sum64(), ext)
}
