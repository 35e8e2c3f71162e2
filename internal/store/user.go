package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alternativa-centar/site/types"
	"github.com/google/uuid"
)

// UserRepository handles persistence for admin users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Upsert creates the user or replaces the password hash of an existing
// user with the same username.
func (r *UserRepository) Upsert(ctx context.Context, username, passwordHash string) (types.User, error) {
	now := time.Now()

	const query = `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
		RETURNING id, username, password_hash, created_at, updated_at`
	return r.scanOne(r.db.QueryRowContext(ctx, query, uuid.NewString(), username, passwordHash, now))
}

func (r *UserRepository) scanOne(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
