package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"notion_blog/internal/domain"
)

type PostSource interface {
	FetchPublished(ctx context.Context) []domain.Post
}

type ImageProcessor interface {
	ProcessPosts(ctx context.Context, posts []domain.Post) (int, error)
}

type Publisher interface {
	HasChanges(ctx context.Context) (bool, error)
	Publish(ctx context.Context, message string) error
}

type Notifier interface {
	NotifySuccess(ctx context.Context, summary *domain.SyncSummary) error
	NotifyFailure(ctx context.Context, summary *domain.SyncSummary) error
}

type Deployer interface {
	Deploy(ctx context.Context) error
}

type StateStore interface {
	Read() (time.Time, bool)
	Write(t time.Time) error
}
