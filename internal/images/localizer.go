package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"notion_blog/internal/config"
)

var imageRefPattern = regexp.MustCompile(`!\[([^\]]*)\]\((https://[^)]+)\)`)

// The transient storage rejects unidentified clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Downloader fetches image bytes and reports the declared content type.
type Downloader interface {
	Download(ctx context.Context, url string) (data []byte, contentType string, err error)
}

type HTTPDownloader struct {
	client *http.Client
}

func NewHTTPDownloader(timeout time.Duration) *HTTPDownloader {
	return &HTTPDownloader{client: &http.Client{Timeout: timeout}}
}

func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// Localizer rewrites transient-host image references in rendered markdown to
// durable raw-content URLs backed by files under the local images tree.
// Storage is keyed by content hash alone, so identical bytes referenced from
// different posts collapse to one file.
type Localizer struct {
	cfg        config.ImagesConfig
	downloader Downloader
	now        func() time.Time
	logger     *slog.Logger
}

func NewLocalizer(cfg config.ImagesConfig, downloader Downloader, logger *slog.Logger) *Localizer {
	return &Localizer{
		cfg:        cfg,
		downloader: downloader,
		now:        time.Now,
		logger:     logger.With("component", "images"),
	}
}

// Rewrite returns the markdown with every transient reference rewritten and
// the number of references localized. A failed download leaves the original
// reference untouched and never aborts the rest of the document.
func (l *Localizer) Rewrite(ctx context.Context, markdown string) (string, int) {
	localized := 0
	out := imageRefPattern.ReplaceAllStringFunc(markdown, func(match string) string {
		groups := imageRefPattern.FindStringSubmatch(match)
		alt, url := groups[1], groups[2]

		if !l.transientHost(url) {
			return match
		}

		storagePath, err := l.localize(ctx, url)
		if err != nil {
			l.logger.Warn("image localization failed", "url", url, "error", err)
			return match
		}

		localized++
		return fmt.Sprintf("![%s](%s/%s)", alt, l.cfg.BaseURL(), storagePath)
	})
	return out, localized
}

func (l *Localizer) transientHost(url string) bool {
	for _, host := range l.cfg.AllowedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// localize downloads the image and stores it under the date-partitioned
// tree, reusing the existing file when the content hash is already known.
func (l *Localizer) localize(ctx context.Context, url string) (string, error) {
	data, contentType, err := l.downloader.Download(ctx, url)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:16]

	now := l.now()
	storagePath := fmt.Sprintf("%s/%d/%02d/%s%s",
		l.cfg.Dir, now.Year(), int(now.Month()), hash, extensionFor(contentType))

	diskPath := filepath.FromSlash(storagePath)
	if _, err := os.Stat(diskPath); err == nil {
		return storagePath, nil
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}
	if err := os.WriteFile(diskPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return storagePath, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return ".jpg"
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
