package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"notion_blog/internal/config"
)

// commandRunner abstracts process execution so the git and fly wrappers can
// be tested without touching a real repository.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Git publishes the working tree by staging everything, committing, and
// pushing to the configured remote.
type Git struct {
	remote string
	branch string
	runner commandRunner
	logger *slog.Logger
}

func NewGit(cfg config.GitConfig, logger *slog.Logger) *Git {
	return &Git{
		remote: cfg.Remote,
		branch: cfg.Branch,
		runner: execRunner{},
		logger: logger.With("component", "git"),
	}
}

// HasChanges reports whether the working tree differs from HEAD.
func (g *Git) HasChanges(ctx context.Context) (bool, error) {
	out, err := g.runner.Run(ctx, "git", "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// Publish stages all changes, commits them with the given message, and
// pushes the configured branch.
func (g *Git) Publish(ctx context.Context, message string) error {
	steps := [][]string{
		{"add", "-A"},
		{"commit", "-m", message},
		{"push", g.remote, g.branch},
	}
	for _, args := range steps {
		g.logger.Debug("git", "args", strings.Join(args, " "))
		if _, err := g.runner.Run(ctx, "git", args...); err != nil {
			return err
		}
	}
	g.logger.Info("pushed changes", "remote", g.remote, "branch", g.branch)
	return nil
}
