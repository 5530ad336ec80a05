// Package noaa downloads ATCF best-track archives.
package noaa

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/couchcryptid/storm-surge-setup/internal/observability"
)

// ErrChecksumMismatch is returned when a download does not match the
// configured SHA-256.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// BestTrackURL returns the archive URL of a b-deck, e.g.
// {base}/2012/bal182012.dat.gz for Atlantic storm 18 of 2012.
func BestTrackURL(base string, year int, basin string, number int) string {
	return fmt.Sprintf("%s/%d/b%s%02d%d.dat.gz", strings.TrimRight(base, "/"), year, strings.ToLower(basin), number, year)
}

// Client fetches best-track archives over HTTP.
type Client struct {
	httpClient *http.Client
	checksum   string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a best-track client. checksum is an optional lower-case
// hex SHA-256 every fetched archive must match.
func NewClient(timeout time.Duration, checksum string, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		checksum:   checksum,
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch downloads rawURL into dir and returns the local path. If the file is
// already present nothing is downloaded. A download only becomes visible
// under its final name once the status, the gzip stream and the optional
// checksum have all been verified.
func (c *Client) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse track url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("track url %q has no file name", rawURL)
	}
	dest := filepath.Join(dir, name)

	if _, err := os.Stat(dest); err == nil {
		c.logger.Info("best track already present", "path", dest)
		c.metrics.TrackDownloads.WithLabelValues("cached").Inc()
		return dest, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create track dir: %w", err)
	}

	start := time.Now()
	n, err := c.download(ctx, rawURL, dest)
	if err != nil {
		c.metrics.TrackDownloads.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.TrackDownloads.WithLabelValues("fetched").Inc()
	c.metrics.TrackDownloadBytes.Add(float64(n))
	c.metrics.TrackDownloadDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("best track downloaded", "url", rawURL, "path", dest, "bytes", n)
	return dest, nil
}

func (c *Client) download(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("best track request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("best track download: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			os.Remove(tmpName)
		}
	}()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", filepath.Base(dest), err)
	}

	if err := verifyGzip(tmpName); err != nil {
		return 0, fmt.Errorf("verify %s: %w", filepath.Base(dest), err)
	}
	if c.checksum != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); got != c.checksum {
			return 0, fmt.Errorf("verify %s: %w: got %s, want %s", filepath.Base(dest), ErrChecksumMismatch, got, c.checksum)
		}
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("install %s: %w", filepath.Base(dest), err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return 0, fmt.Errorf("install %s: %w", filepath.Base(dest), err)
	}
	keep = true
	return n, nil
}

// verifyGzip reads the whole stream so truncation and CRC errors surface.
func verifyGzip(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = io.Copy(io.Discard, zr)
	return err
}

// Decompress unpacks a fetched archive with the package-level Decompress.
func (c *Client) Decompress(gzPath string) (string, error) {
	out, err := Decompress(gzPath)
	if err != nil {
		return "", err
	}
	c.logger.Debug("best track decompressed", "path", out)
	return out, nil
}

// Decompress writes the contents of a .gz archive next to it, without the
// .gz suffix, and returns the new path. The output is renamed into place
// only once fully written.
func Decompress(gzPath string) (string, error) {
	if !strings.HasSuffix(gzPath, ".gz") {
		return "", fmt.Errorf("decompress %s: not a .gz file", filepath.Base(gzPath))
	}
	dest := strings.TrimSuffix(gzPath, ".gz")

	in, err := os.Open(gzPath)
	if err != nil {
		return "", fmt.Errorf("decompress: %w", err)
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", fmt.Errorf("decompress %s: %w", filepath.Base(gzPath), err)
	}
	defer zr.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = io.Copy(tmp, zr)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpName, dest)
	}
	if err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("decompress %s: %w", filepath.Base(gzPath), err)
	}
	return dest, nil
}
