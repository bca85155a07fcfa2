package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"

	"notion_blog/internal/config"
	"notion_blog/internal/domain"
)

const queryPageSize = 100

// databaseQuerier and blockLister cover the two Notion API surfaces the
// repository touches; the real client's services satisfy both.
type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

type blockLister interface {
	GetChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
}

// Localizer rewrites image references in converted markdown.
type Localizer interface {
	Rewrite(ctx context.Context, markdown string) (string, int)
}

// Repository reads the blog database and maps pages into domain posts.
type Repository struct {
	databases  databaseQuerier
	blocks     blockLister
	databaseID notionapi.DatabaseID
	published  string
	props      config.PropertyBindings
	localizer  Localizer
	logger     *slog.Logger
}

func NewRepository(cfg config.NotionConfig, client *notionapi.Client, localizer Localizer, logger *slog.Logger) *Repository {
	return &Repository{
		databases:  client.Database,
		blocks:     client.Block,
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
		published:  cfg.PublishedStatus,
		props:      cfg.Properties,
		localizer:  localizer,
		logger:     logger.With("component", "notion"),
	}
}

// FetchPublished lists published posts, most recently published first,
// without content. A query failure yields an empty list and a logged error;
// callers cannot tell it apart from an empty database.
func (r *Repository) FetchPublished(ctx context.Context) []domain.Post {
	req := &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: r.props.Status,
			Select:   &notionapi.SelectFilterCondition{Equals: r.published},
		},
		Sorts: []notionapi.SortObject{
			{Property: r.props.PublishedDate, Direction: notionapi.SortOrderDESC},
		},
		PageSize: queryPageSize,
	}

	var posts []domain.Post
	for {
		resp, err := r.databases.Query(ctx, r.databaseID, req)
		if err != nil {
			r.logger.Error("query published posts", "error", err)
			return nil
		}

		for i := range resp.Results {
			post := r.mapPage(&resp.Results[i])
			if post.Status != r.published {
				continue
			}
			posts = append(posts, post)
		}

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	return posts
}

// FetchBySlug returns the fully populated post for slug, or (nil, nil) when
// no page matches. When several pages share the slug the first query result
// wins.
func (r *Repository) FetchBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	resp, err := r.databases.Query(ctx, r.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: r.props.Slug,
			RichText: &notionapi.TextFilterCondition{Equals: slug},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query by slug: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	if len(resp.Results) > 1 {
		r.logger.Debug("slug matches multiple pages, using first",
			"slug", slug,
			"matches", len(resp.Results),
		)
	}

	post := r.mapPage(&resp.Results[0])

	markdown, err := r.FetchContent(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	if r.localizer != nil {
		markdown, _ = r.localizer.Rewrite(ctx, markdown)
	}
	post.Content = markdown

	return &post, nil
}

// FetchContent converts the page's full block tree to markdown without
// touching image references.
func (r *Repository) FetchContent(ctx context.Context, pageID string) (string, error) {
	var all []notionapi.Block
	pagination := &notionapi.Pagination{PageSize: queryPageSize}

	for {
		resp, err := r.blocks.GetChildren(ctx, notionapi.BlockID(pageID), pagination)
		if err != nil {
			return "", fmt.Errorf("list blocks: %w", err)
		}
		all = append(all, resp.Results...)

		if !resp.HasMore {
			break
		}
		pagination.StartCursor = notionapi.Cursor(resp.NextCursor)
	}

	return BlocksToMarkdown(all), nil
}

// mapPage extracts the declared property set into a domain post. Missing or
// differently-typed properties default to their zero value instead of
// failing the whole page.
func (r *Repository) mapPage(page *notionapi.Page) domain.Post {
	props := page.Properties

	post := domain.Post{
		ID:         string(page.ID),
		LastEdited: page.LastEditedTime.UTC().Format(time.RFC3339),
	}

	if p, ok := props[r.props.Title].(*notionapi.TitleProperty); ok && len(p.Title) > 0 {
		post.Title = p.Title[0].PlainText
	}
	if p, ok := props[r.props.Slug].(*notionapi.RichTextProperty); ok && len(p.RichText) > 0 {
		post.Slug = p.RichText[0].PlainText
	}
	if p, ok := props[r.props.Status].(*notionapi.SelectProperty); ok {
		post.Status = p.Select.Name
	}
	if p, ok := props[r.props.PublishedDate].(*notionapi.DateProperty); ok && p.Date != nil && p.Date.Start != nil {
		start := time.Time(*p.Date.Start).Format("2006-01-02")
		post.PublishedDate = &start
	}
	if p, ok := props[r.props.Tags].(*notionapi.MultiSelectProperty); ok {
		for _, opt := range p.MultiSelect {
			post.Tags = append(post.Tags, opt.Name)
		}
	}
	if p, ok := props[r.props.MetaDescription].(*notionapi.RichTextProperty); ok && len(p.RichText) > 0 {
		post.MetaDescription = p.RichText[0].PlainText
	}

	return post
}
