package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"notion_blog/internal/config"
	"notion_blog/internal/domain"
)

// GitHub reports sync outcomes by opening labeled issues on the blog
// repository. Without a token it degrades to a no-op so local runs and CI
// without credentials still work.
type GitHub struct {
	token   string
	owner   string
	repo    string
	baseURL string
	client  *http.Client
	now     func() time.Time
	logger  *slog.Logger
}

func NewGitHub(cfg config.GitHubConfig, logger *slog.Logger) *GitHub {
	return &GitHub{
		token:   cfg.Token,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		baseURL: "https://api.github.com",
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
		logger:  logger.With("component", "notify"),
	}
}

type issueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

func (g *GitHub) NotifySuccess(ctx context.Context, summary *domain.SyncSummary) error {
	body := fmt.Sprintf(
		"**Blog sync succeeded**\n\n- Posts updated: %d\n- Images processed: %d\n- Completed at: %s\n",
		summary.PostsUpdated,
		summary.ImagesProcessed,
		g.now().Format("2006-01-02 15:04:05"),
	)
	return g.createIssue(ctx, issueRequest{
		Title:  fmt.Sprintf("[automation] sync succeeded - %s", g.now().Format("01/02 15:04")),
		Body:   body,
		Labels: []string{"automation", "success"},
	})
}

func (g *GitHub) NotifyFailure(ctx context.Context, summary *domain.SyncSummary) error {
	body := fmt.Sprintf(
		"**Blog sync failed**\n\n```\n%s\n```\n\nOccurred at: %s\n\nManual attention required.\n",
		strings.Join(summary.Errors, "\n"),
		g.now().Format("2006-01-02 15:04:05"),
	)
	return g.createIssue(ctx, issueRequest{
		Title:  fmt.Sprintf("[automation] sync failed - %s", g.now().Format("01/02 15:04")),
		Body:   body,
		Labels: []string{"automation", "error", "bug"},
	})
}

func (g *GitHub) createIssue(ctx context.Context, issue issueRequest) error {
	if g.token == "" {
		g.logger.Warn("no github token configured, skipping notification", "title", issue.Title)
		return nil
	}

	payload, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("marshal issue: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues", g.baseURL, g.owner, g.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("create issue: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	g.logger.Info("notification issue created", "title", issue.Title)
	return nil
}
