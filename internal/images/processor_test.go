package images

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion_blog/internal/domain"
)

type stubLoader struct {
	content map[string]string
	err     error
}

func (s *stubLoader) FetchContent(_ context.Context, pageID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.content[pageID], nil
}

func TestProcessPosts_LoadsContentAndCounts(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	localizer := fixedLocalizer(t, downloader)

	loader := &stubLoader{content: map[string]string{
		"p1": "![a](https://notion.so/a.png)\n\n![b](https://notion.so/b.png)\n\n",
		"p2": "no images here\n\n",
	}}
	processor := NewBatchProcessor(loader, localizer, testLogger())

	total, err := processor.ProcessPosts(context.Background(), []domain.Post{
		{ID: "p1", Slug: "one"},
		{ID: "p2", Slug: "two"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestProcessPosts_UsesPreloadedContent(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	localizer := fixedLocalizer(t, downloader)

	loader := &stubLoader{err: errors.New("must not be called")}
	processor := NewBatchProcessor(loader, localizer, testLogger())

	total, err := processor.ProcessPosts(context.Background(), []domain.Post{
		{ID: "p1", Content: "![a](https://notion.so/a.png)\n\n"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestProcessPosts_SkipsUnloadablePosts(t *testing.T) {
	downloader := &stubDownloader{data: pngBytes, contentType: "image/png"}
	localizer := fixedLocalizer(t, downloader)

	loader := &stubLoader{err: errors.New("blocks unavailable")}
	processor := NewBatchProcessor(loader, localizer, testLogger())

	total, err := processor.ProcessPosts(context.Background(), []domain.Post{
		{ID: "p1", Slug: "one"},
	})

	require.NoError(t, err)
	assert.Zero(t, total)
}
