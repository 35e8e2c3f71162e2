package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alternativa-centar/site/types"
	"github.com/google/uuid"
)

const newsColumns = `id, title, content, image, published, publish_date, created_at, updated_at`

// NewsRepository handles persistence for news articles.
type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// ListPublished returns published articles, newest first. A limit below one
// returns all of them.
func (r *NewsRepository) ListPublished(ctx context.Context, limit int) ([]types.NewsSummary, error) {
	query := `
		SELECT id, title, image, created_at
		FROM news_articles
		WHERE published = TRUE
		ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]types.NewsSummary, 0)
	for rows.Next() {
		var item types.NewsSummary
		var image sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &image, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Image = image.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every article regardless of publication state, newest first.
func (r *NewsRepository) ListAll(ctx context.Context) ([]types.NewsArticle, error) {
	const query = `SELECT ` + newsColumns + `
		FROM news_articles
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]types.NewsArticle, 0)
	for rows.Next() {
		article, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *NewsRepository) Get(ctx context.Context, id string) (types.NewsArticle, error) {
	const query = `SELECT ` + newsColumns + `
		FROM news_articles
		WHERE id = $1`
	article, err := scanNews(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.NewsArticle{}, ErrNotFound
		}
		return types.NewsArticle{}, err
	}
	return article, nil
}

func (r *NewsRepository) Create(ctx context.Context, article types.NewsArticle) (types.NewsArticle, error) {
	now := time.Now()
	article.ID = uuid.NewString()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.PublishDate.IsZero() {
		article.PublishDate = now
	}

	const query = `
		INSERT INTO news_articles (id, title, content, image, published, publish_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		article.ID,
		article.Title,
		article.Content,
		nullString(article.Image),
		article.Published,
		article.PublishDate,
		article.CreatedAt,
		article.UpdatedAt,
	); err != nil {
		return types.NewsArticle{}, err
	}
	return article, nil
}

// Update overwrites the editable fields. A zero PublishDate keeps the
// stored one.
func (r *NewsRepository) Update(ctx context.Context, article types.NewsArticle) (types.NewsArticle, error) {
	var publishDate sql.NullTime
	if !article.PublishDate.IsZero() {
		publishDate = sql.NullTime{Time: article.PublishDate, Valid: true}
	}

	const query = `
		UPDATE news_articles
		SET title = $1,
			content = $2,
			image = $3,
			published = $4,
			publish_date = COALESCE($5, publish_date),
			updated_at = $6
		WHERE id = $7
		RETURNING ` + newsColumns
	updated, err := scanNews(r.db.QueryRowContext(
		ctx,
		query,
		article.Title,
		article.Content,
		nullString(article.Image),
		article.Published,
		publishDate,
		time.Now(),
		article.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.NewsArticle{}, ErrNotFound
		}
		return types.NewsArticle{}, err
	}
	return updated, nil
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM news_articles WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNews(row rowScanner) (types.NewsArticle, error) {
	var article types.NewsArticle
	var image sql.NullString
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&image,
		&article.Published,
		&article.PublishDate,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return types.NewsArticle{}, err
	}
	article.Image = image.String
	return article, nil
}
