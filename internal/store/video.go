package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/alternativa-centar/site/types"
)

// VideoRepository handles persistence for featured YouTube videos.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// List returns videos oldest first. A limit below one returns all of them.
func (r *VideoRepository) List(ctx context.Context, limit int) ([]types.Video, error) {
	query := `
		SELECT id, title, created_at
		FROM youtube_videos
		ORDER BY created_at ASC, id ASC`
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

	videos := make([]types.Video, 0)
	for rows.Next() {
		var video types.Video
		if err := rows.Scan(&video.ID, &video.Title, &video.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return videos, nil
}

// CreateCapped inserts a video unless the table already holds max rows.
// The count and insert run under a table lock so concurrent admins cannot
// overshoot the cap.
func (r *VideoRepository) CreateCapped(ctx context.Context, video types.Video, max int) (types.Video, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Video{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE youtube_videos IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return types.Video{}, err
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM youtube_videos`).Scan(&count); err != nil {
		return types.Video{}, err
	}
	if count >= max {
		return types.Video{}, ErrLimitReached
	}

	video.CreatedAt = time.Now()
	const query = `INSERT INTO youtube_videos (id, title, created_at) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, video.ID, video.Title, video.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return types.Video{}, ErrConflict
		}
		return types.Video{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Video{}, err
	}
	return video, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM youtube_videos WHERE id = $1`
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
