package services

import (
	"context"
	"strings"
	"time"

	"github.com/alternativa-centar/site/types"
	"github.com/microcosm-cc/bluemonday"
)

const (
	newsImageCollection = "news"
	maxNewsLimit        = 100
)

// NewsRepository defines persistence operations for news articles.
type NewsRepository interface {
	ListPublished(ctx context.Context, limit int) ([]types.NewsSummary, error)
	ListAll(ctx context.Context) ([]types.NewsArticle, error)
	Get(ctx context.Context, id string) (types.NewsArticle, error)
	Create(ctx context.Context, article types.NewsArticle) (types.NewsArticle, error)
	Update(ctx context.Context, article types.NewsArticle) (types.NewsArticle, error)
	Delete(ctx context.Context, id string) error
}

// NewsService encapsulates news use-cases. Article bodies come from a
// rich-text editor and are sanitised before they are stored.
type NewsService struct {
	repo   NewsRepository
	images ImageProcessor
	policy *bluemonday.Policy
}

func NewNewsService(repo NewsRepository, images ImageProcessor) *NewsService {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "ol", "ul", "li", "pre", "blockquote")
	policy.AllowAttrs("style").OnElements("p", "span")
	policy.AllowStyles("text-align").Globally()
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &NewsService{
		repo:   repo,
		images: orInline(images),
		policy: policy,
	}
}

// ListPublished returns published summaries, newest first. A limit of zero
// returns every published article; explicit limits are capped.
func (s *NewsService) ListPublished(ctx context.Context, limit int) ([]types.NewsSummary, error) {
	if limit < 0 {
		limit = 0
	}
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}
	return s.repo.ListPublished(ctx, limit)
}

func (s *NewsService) ListAll(ctx context.Context) ([]types.NewsArticle, error) {
	return s.repo.ListAll(ctx)
}

func (s *NewsService) Get(ctx context.Context, id string) (types.NewsArticle, error) {
	return s.repo.Get(ctx, id)
}

func (s *NewsService) Create(ctx context.Context, input types.NewsInput) (types.NewsArticle, error) {
	article, err := s.prepare(ctx, input, "")
	if err != nil {
		return types.NewsArticle{}, err
	}
	created, err := s.repo.Create(ctx, article)
	if err != nil {
		s.images.Discard(ctx, article.Image)
		return types.NewsArticle{}, err
	}
	return created, nil
}

func (s *NewsService) Update(ctx context.Context, id string, input types.NewsInput) (types.NewsArticle, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.NewsArticle{}, err
	}

	article, err := s.prepare(ctx, input, existing.Image)
	if err != nil {
		return types.NewsArticle{}, err
	}
	article.ID = id

	updated, err := s.repo.Update(ctx, article)
	if err != nil {
		if article.Image != existing.Image {
			s.images.Discard(ctx, article.Image)
		}
		return types.NewsArticle{}, err
	}
	if existing.Image != updated.Image {
		s.images.Discard(ctx, existing.Image)
	}
	return updated, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.Discard(ctx, existing.Image)
	return nil
}

// prepare validates input and normalises its image. An image equal to
// current is kept as stored.
func (s *NewsService) prepare(ctx context.Context, input types.NewsInput, current string) (types.NewsArticle, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(s.policy.Sanitize(input.Content))
	if title == "" || content == "" {
		return types.NewsArticle{}, invalid("Title and content are required")
	}

	image, err := normalizeImage(ctx, s.images, newsImageCollection, input.Image, current)
	if err != nil {
		return types.NewsArticle{}, err
	}

	var publishDate time.Time
	if input.PublishDate != nil {
		publishDate = *input.PublishDate
	}

	return types.NewsArticle{
		Title:       title,
		Content:     content,
		Image:       image,
		Published:   input.Published,
		PublishDate: publishDate,
	}, nil
}
