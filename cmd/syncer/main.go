package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jomei/notionapi"
	"github.com/spf13/cobra"

	"notion_blog/internal/config"
	"notion_blog/internal/domain"
	"notion_blog/internal/images"
	"notion_blog/internal/notify"
	"notion_blog/internal/notion"
	"notion_blog/internal/publisher"
	"notion_blog/internal/scheduler"
	"notion_blog/internal/service"
	"notion_blog/internal/state"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dryRun     bool
		watch      bool
	)

	cmd := &cobra.Command{
		Use:          "syncer",
		Short:        "Sync published posts from the content database into the blog repository",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, dryRun, watch)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "detect changes without writing, publishing, or notifying")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and sync on the configured interval")

	return cmd
}

func run(ctx context.Context, configPath string, dryRun, watch bool) error {
	logger := setupLogger("info")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	logger = setupLogger(cfg.LogLevel)

	client := notionapi.NewClient(notionapi.Token(cfg.Notion.Token))
	downloader := images.NewHTTPDownloader(cfg.Images.Timeout)
	localizer := images.NewLocalizer(cfg.Images, downloader, logger)
	repo := notion.NewRepository(cfg.Notion, client, localizer, logger)
	processor := images.NewBatchProcessor(repo, localizer, logger)
	store := state.NewStore(cfg.Sync.StateFile, logger)
	git := publisher.NewGit(cfg.Git, logger)
	notifier := notify.NewGitHub(cfg.GitHub, logger)

	var deployer service.Deployer
	if cfg.Deploy.Enabled {
		deployer = publisher.NewFly(cfg.Deploy, logger)
	}

	syncService := service.NewSyncService(
		repo,
		processor,
		git,
		notifier,
		deployer,
		store,
		cfg.Validate,
		logger,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if watch {
		if dryRun {
			logger.Warn("--dry-run is ignored in watch mode")
		}

		sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
			return err
		}
		return nil
	}

	summary := syncService.Run(ctx, dryRun)
	printSummary(summary)

	if !summary.Success {
		return fmt.Errorf("sync failed")
	}
	return nil
}

func printSummary(summary *domain.SyncSummary) {
	fmt.Println("\nsync summary:")
	fmt.Printf("- posts updated:    %d\n", summary.PostsUpdated)
	fmt.Printf("- images processed: %d\n", summary.ImagesProcessed)
	fmt.Printf("- duration:         %s\n", summary.Duration)
	fmt.Printf("- success:          %t\n", summary.Success)
	if summary.DryRun {
		fmt.Println("- mode:             dry run")
	}
	for _, e := range summary.Errors {
		fmt.Printf("- error: %s\n", e)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
