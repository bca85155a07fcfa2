package images

import (
	"context"
	"log/slog"

	"notion_blog/internal/domain"
)

// ContentLoader supplies a post's converted markdown body. List fetches do
// not carry content, so the batch pass loads it per post.
type ContentLoader interface {
	FetchContent(ctx context.Context, pageID string) (string, error)
}

// BatchProcessor localizes images across every changed post in one pass.
type BatchProcessor struct {
	loader    ContentLoader
	localizer *Localizer
	logger    *slog.Logger
}

func NewBatchProcessor(loader ContentLoader, localizer *Localizer, logger *slog.Logger) *BatchProcessor {
	return &BatchProcessor{
		loader:    loader,
		localizer: localizer,
		logger:    logger.With("component", "images"),
	}
}

// ProcessPosts downloads and rewrites the images each post references,
// returning the total localized. A post whose content cannot be loaded is
// skipped and logged; it does not fail the batch.
func (p *BatchProcessor) ProcessPosts(ctx context.Context, posts []domain.Post) (int, error) {
	total := 0
	for i := range posts {
		post := &posts[i]

		content := post.Content
		if !post.HasContent() {
			loaded, err := p.loader.FetchContent(ctx, post.ID)
			if err != nil {
				p.logger.Warn("load post content",
					"id", post.ID,
					"slug", post.Slug,
					"error", err,
				)
				continue
			}
			content = loaded
		}

		_, n := p.localizer.Rewrite(ctx, content)
		total += n
	}
	return total, nil
}
