package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// downloader fetches artifacts into cacheDir, skipping ones already cached.
type downloader struct {
	client   *http.Client
	cacheDir string
	log      zerolog.Logger
}

// Cached returns the path an artifact named name is stored at, and whether
// it is present.
func (d *downloader) Cached(name string) (string, bool) {
	dest := filepath.Join(d.cacheDir, filepath.Base(name))
	info, err := os.Stat(dest)
	return dest, err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Download fetches url as name. Returns the cached path without a request
// when the artifact is already on disk.
func (d *downloader) Download(ctx context.Context, url, name string) (string, error) {
	dest, ok := d.Cached(name)
	if ok {
		d.log.Info().Str("path", dest).Msg("using cached component")
		return dest, nil
	}

	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	d.log.Info().Str("url", url).Msg("downloading component")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned HTTP %d", resp.StatusCode)
	}

	// Stage next to the cache entry so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(d.cacheDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("write component: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}
	if n == 0 {
		os.Remove(tmpPath)
		return "", fmt.Errorf("download of %s was empty", url)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename component: %w", err)
	}

	d.log.Info().Str("path", dest).Int64("bytes", n).Msg("download complete")
	return dest, nil
}
