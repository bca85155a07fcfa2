package service

import (
	"log/slog"
	"time"

	"notion_blog/internal/domain"
)

// ChangedSince keeps the posts edited strictly after cutoff. A zero cutoff
// means no previous sync exists, so every post counts as changed. A post
// whose edit timestamp cannot be parsed is kept: syncing it again is cheap,
// silently dropping it is not.
func ChangedSince(posts []domain.Post, cutoff time.Time, logger *slog.Logger) []domain.Post {
	if cutoff.IsZero() {
		return posts
	}

	cutoff = cutoff.UTC()
	var changed []domain.Post
	for _, post := range posts {
		edited, err := time.Parse(time.RFC3339, post.LastEdited)
		if err != nil {
			logger.Warn("unparsable edit timestamp, treating post as changed",
				"slug", post.Slug,
				"last_edited", post.LastEdited,
			)
			changed = append(changed, post)
			continue
		}
		if edited.UTC().After(cutoff) {
			changed = append(changed, post)
		}
	}
	return changed
}
