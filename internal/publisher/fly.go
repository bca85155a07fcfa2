package publisher

import (
	"context"
	"log/slog"

	"notion_blog/internal/config"
)

// Fly triggers a remote-builder deployment through the fly CLI.
type Fly struct {
	app    string
	runner commandRunner
	logger *slog.Logger
}

func NewFly(cfg config.DeployConfig, logger *slog.Logger) *Fly {
	return &Fly{
		app:    cfg.App,
		runner: execRunner{},
		logger: logger.With("component", "deploy"),
	}
}

func (f *Fly) Deploy(ctx context.Context) error {
	args := []string{"deploy", "--remote-only"}
	if f.app != "" {
		args = append(args, "--app", f.app)
	}

	f.logger.Info("triggering deployment", "app", f.app)
	if _, err := f.runner.Run(ctx, "fly", args...); err != nil {
		return err
	}
	f.logger.Info("deployment triggered")
	return nil
}
