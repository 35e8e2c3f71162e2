package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alternativa-centar/site/types"
	"github.com/google/uuid"
)

const teamColumns = `id, name, position, image, biography, "order", created_at, updated_at`

// TeamRepository handles persistence for team members.
type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// List returns all members in display order. Equal orders fall back to id.
func (r *TeamRepository) List(ctx context.Context) ([]types.TeamMember, error) {
	const query = `SELECT ` + teamColumns + `
		FROM team_members
		ORDER BY "order" ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]types.TeamMember, 0)
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *TeamRepository) Get(ctx context.Context, id string) (types.TeamMember, error) {
	const query = `SELECT ` + teamColumns + `
		FROM team_members
		WHERE id = $1`
	member, err := scanTeamMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TeamMember{}, ErrNotFound
		}
		return types.TeamMember{}, err
	}
	return member, nil
}

func (r *TeamRepository) Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error) {
	now := time.Now()
	member.ID = uuid.NewString()
	member.CreatedAt = now
	member.UpdatedAt = now

	const query = `
		INSERT INTO team_members (id, name, position, image, biography, "order", created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		member.ID,
		member.Name,
		member.Position,
		nullString(member.Image),
		member.Biography,
		member.Order,
		member.CreatedAt,
		member.UpdatedAt,
	); err != nil {
		return types.TeamMember{}, err
	}
	return member, nil
}

// Update overwrites the editable fields of a member. A nil input order keeps
// the stored position.
func (r *TeamRepository) Update(ctx context.Context, id string, input types.TeamMemberInput) (types.TeamMember, error) {
	var order sql.NullInt64
	if input.Order != nil {
		order = sql.NullInt64{Int64: int64(*input.Order), Valid: true}
	}

	const query = `
		UPDATE team_members
		SET name = $1,
			position = $2,
			image = $3,
			biography = $4,
			"order" = COALESCE($5, "order"),
			updated_at = $6
		WHERE id = $7
		RETURNING ` + teamColumns
	member, err := scanTeamMember(r.db.QueryRowContext(
		ctx,
		query,
		input.Name,
		input.Position,
		nullString(input.Image),
		input.Biography,
		order,
		time.Now(),
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.TeamMember{}, ErrNotFound
		}
		return types.TeamMember{}, err
	}
	return member, nil
}

// SetOrders applies all position changes in one transaction. An unknown id
// rolls back every change and returns ErrNotFound.
func (r *TeamRepository) SetOrders(ctx context.Context, orders []types.TeamOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `UPDATE team_members SET "order" = $1, updated_at = $2 WHERE id = $3`
	now := time.Now()
	for _, item := range orders {
		result, err := tx.ExecContext(ctx, query, item.Order, now, item.ID)
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
	}

	return tx.Commit()
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM team_members WHERE id = $1`
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

func scanTeamMember(row rowScanner) (types.TeamMember, error) {
	var member types.TeamMember
	var image sql.NullString
	if err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Position,
		&image,
		&member.Biography,
		&member.Order,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return types.TeamMember{}, err
	}
	member.Image = image.String
	return member, nil
}
