package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"notion_blog/internal/domain"
)

// SyncService drives one full sync cycle: detect changed posts, localize
// their images, publish the resulting tree, record the sync time, and
// report the outcome.
type SyncService struct {
	source      PostSource
	images      ImageProcessor
	publisher   Publisher
	notifier    Notifier
	deployer    Deployer
	state       StateStore
	configCheck func() error
	logger      *slog.Logger
}

func NewSyncService(
	source PostSource,
	images ImageProcessor,
	publisher Publisher,
	notifier Notifier,
	deployer Deployer,
	state StateStore,
	configCheck func() error,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		source:      source,
		images:      images,
		publisher:   publisher,
		notifier:    notifier,
		deployer:    deployer,
		state:       state,
		configCheck: configCheck,
		logger:      logger.With("component", "sync"),
	}
}

// Run executes one sync cycle and always returns a summary; failures are
// recorded in it rather than returned. In dry-run mode nothing is written,
// published, or notified, but detection still runs so the counts are real.
func (s *SyncService) Run(ctx context.Context, dryRun bool) *domain.SyncSummary {
	start := time.Now()
	summary := &domain.SyncSummary{DryRun: dryRun}

	s.logger.Info("starting sync", "dry_run", dryRun)

	if err := s.configCheck(); err != nil {
		return s.fail(ctx, summary, start, fmt.Errorf("configuration incomplete: %w", err))
	}

	cutoff, synced := s.state.Read()
	if synced {
		s.logger.Info("last sync", "at", cutoff.UTC().Format(time.RFC3339))
	} else {
		s.logger.Info("first sync, treating every published post as changed")
	}

	posts := s.source.FetchPublished(ctx)
	changed := ChangedSince(posts, cutoff, s.logger)
	summary.PostsUpdated = len(changed)

	s.logger.Info("change detection complete",
		"published", len(posts),
		"changed", len(changed),
	)

	if len(changed) > 0 && !dryRun {
		count, err := s.images.ProcessPosts(ctx, changed)
		if err != nil {
			return s.fail(ctx, summary, start, fmt.Errorf("process images: %w", err))
		}
		summary.ImagesProcessed = count

		s.publish(ctx, len(changed))

		if s.deployer != nil {
			if err := s.deployer.Deploy(ctx); err != nil {
				s.logger.Error("deploy failed", "error", err)
			}
		}
	}

	if !dryRun {
		if err := s.state.Write(time.Now()); err != nil {
			return s.fail(ctx, summary, start, fmt.Errorf("record sync time: %w", err))
		}
	}

	summary.Success = true
	summary.Duration = time.Since(start)

	if !dryRun {
		if err := s.notifier.NotifySuccess(ctx, summary); err != nil {
			s.logger.Warn("success notification failed", "error", err)
		}
	}

	s.logger.Info("sync completed",
		"posts_updated", summary.PostsUpdated,
		"images_processed", summary.ImagesProcessed,
		"duration", summary.Duration,
	)
	return summary
}

// publish commits and pushes the working tree when anything changed on disk.
// A publish failure is logged but does not fail the cycle; the next run
// picks the uncommitted files up again.
func (s *SyncService) publish(ctx context.Context, postCount int) {
	hasChanges, err := s.publisher.HasChanges(ctx)
	if err != nil {
		s.logger.Warn("git status check failed", "error", err)
		return
	}
	if !hasChanges {
		s.logger.Debug("working tree clean, nothing to publish")
		return
	}

	message := fmt.Sprintf("auto: blog sync - %d posts updated", postCount)
	if err := s.publisher.Publish(ctx, message); err != nil {
		s.logger.Error("publish failed", "error", err)
		return
	}
	s.logger.Info("published changes", "message", message)
}

func (s *SyncService) fail(ctx context.Context, summary *domain.SyncSummary, start time.Time, err error) *domain.SyncSummary {
	summary.AddError(err.Error())
	summary.Duration = time.Since(start)

	s.logger.Error("sync failed", "error", err)

	if !summary.DryRun {
		if nerr := s.notifier.NotifyFailure(ctx, summary); nerr != nil {
			s.logger.Warn("failure notification failed", "error", nerr)
		}
	}
	return summary
}
