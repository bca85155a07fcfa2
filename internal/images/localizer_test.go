package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion_blog/internal/config"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

type stubDownloader struct {
	data        []byte
	contentType string
	err         error
	calls       int
}

func (d *stubDownloader) Download(_ context.Context, _ string) ([]byte, string, error) {
	d.calls++
	if d.err != nil {
		return nil, "", d.err
	}
	return d.data, d.contentType, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testImagesConfig() config.ImagesConfig {
	return config.ImagesConfig{
		Dir:          "images",
		AllowedHosts: []string{"prod-files-secure.s3.amazonaws.com", "notion.so"},
		RawHost:      "raw.githubusercontent.com",
		Owner:        "owner",
		Repo:         "repo",
		Branch:       "main",
	}
}

func fixedLocalizer(t *testing.T, downloader Downloader) *Localizer {
	t.Helper()
	// t.Chdir equivalent for Go toolchains before 1.24.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	l := NewLocalizer(testImagesConfig(), downloader, testLogger())
	l.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestRewrite_LocalizesTransientReference(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	l := fixedLocalizer(t, downloader)

	markdown := "![x](https://prod-files-secure.s3.amazonaws.com/img.png)"
	out, n := l.Rewrite(context.Background(), markdown)

	sum := sha256.Sum256(pngBytes)
	hash := hex.EncodeToString(sum[:])[:16]
	want := fmt.Sprintf("![x](https://raw.githubusercontent.com/owner/repo/main/images/2026/08/%s.png)", hash)

	assert.Equal(t, want, out)
	assert.Equal(t, 1, n)

	stored := filepath.Join("images", "2026", "08", hash+".png")
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestRewrite_SecondRunMakesNoNewWrites(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	l := fixedLocalizer(t, downloader)

	markdown := "![x](https://prod-files-secure.s3.amazonaws.com/img.png)"
	first, n1 := l.Rewrite(context.Background(), markdown)

	sum := sha256.Sum256(pngBytes)
	stored := filepath.Join("images", "2026", "08", hex.EncodeToString(sum[:])[:16]+".png")
	info1, err := os.Stat(stored)
	require.NoError(t, err)

	second, n2 := l.Rewrite(context.Background(), markdown)
	info2, err := os.Stat(stored)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, n1, n2)
	assert.Equal(t, info1.ModTime(), info2.ModTime(), "existing file must not be rewritten")

	entries, err := os.ReadDir(filepath.Join("images", "2026", "08"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRewrite_DedupAcrossSourceURLs(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	l := fixedLocalizer(t, downloader)

	markdown := "![a](https://prod-files-secure.s3.amazonaws.com/one.png)\n\n" +
		"![b](https://notion.so/two.png)"
	out, n := l.Rewrite(context.Background(), markdown)

	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(filepath.Join("images", "2026", "08"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "identical bytes collapse to one stored file")

	sum := sha256.Sum256(pngBytes)
	durable := fmt.Sprintf("https://raw.githubusercontent.com/owner/repo/main/images/2026/08/%s.png", hex.EncodeToString(sum[:])[:16])
	assert.Equal(t, fmt.Sprintf("![a](%s)\n\n![b](%s)", durable, durable), out)
}

func TestRewrite_ForeignHostPassesThrough(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	l := fixedLocalizer(t, downloader)

	markdown := "![logo](https://example.com/logo.png)"
	out, n := l.Rewrite(context.Background(), markdown)

	assert.Equal(t, markdown, out)
	assert.Zero(t, n)
	assert.Zero(t, downloader.calls)
}

func TestRewrite_FetchFailureKeepsOriginalReference(t *testing.T) {
	downloader := &stubDownloader{err: errors.New("connection refused")}
	l := fixedLocalizer(t, downloader)

	markdown := "before\n\n![x](https://notion.so/gone.png)\n\nafter"
	out, n := l.Rewrite(context.Background(), markdown)

	assert.Equal(t, markdown, out)
	assert.Zero(t, n)
}

func TestRewrite_PreservesAltText(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	l := fixedLocalizer(t, downloader)

	out, _ := l.Rewrite(context.Background(), "![diagram of the pipeline](https://notion.so/d.png)")
	assert.Contains(t, out, "![diagram of the pipeline](https://raw.githubusercontent.com/")
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"application/octet-stream", ".jpg"},
		{"", ".jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extensionFor(tt.contentType), tt.contentType)
	}
}

func TestHTTPDownloader(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	d := NewHTTPDownloader(5 * time.Second)
	data, contentType, err := d.Download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", contentType)
	assert.Contains(t, gotUserAgent, "Mozilla/5.0")
}

func TestHTTPDownloader_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewHTTPDownloader(5 * time.Second)
	_, _, err := d.Download(context.Background(), srv.URL)

	assert.ErrorContains(t, err, "unexpected status: 403")
}
