package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alternativa-centar/site/types"
)

const neighborhoodColumns = `id, value, title, responsible_person, phone, created_at, updated_at`

// NeighborhoodRepository handles persistence for the seeded neighborhood list.
type NeighborhoodRepository struct {
	db *sql.DB
}

func NewNeighborhoodRepository(db *sql.DB) *NeighborhoodRepository {
	return &NeighborhoodRepository{db: db}
}

func (r *NeighborhoodRepository) List(ctx context.Context) ([]types.Neighborhood, error) {
	const query = `SELECT ` + neighborhoodColumns + `
		FROM neighborhoods
		ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]types.Neighborhood, 0)
	for rows.Next() {
		item, err := scanNeighborhood(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NeighborhoodRepository) Get(ctx context.Context, id string) (types.Neighborhood, error) {
	const query = `SELECT ` + neighborhoodColumns + `
		FROM neighborhoods
		WHERE id = $1`
	return r.getOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByValue looks a neighborhood up by its slug.
func (r *NeighborhoodRepository) GetByValue(ctx context.Context, value string) (types.Neighborhood, error) {
	const query = `SELECT ` + neighborhoodColumns + `
		FROM neighborhoods
		WHERE value = $1`
	return r.getOne(r.db.QueryRowContext(ctx, query, value))
}

func (r *NeighborhoodRepository) UpdateContact(ctx context.Context, id string, contact types.NeighborhoodContact) (types.Neighborhood, error) {
	const query = `
		UPDATE neighborhoods
		SET responsible_person = $1,
			phone = $2,
			updated_at = $3
		WHERE id = $4
		RETURNING ` + neighborhoodColumns
	return r.getOne(r.db.QueryRowContext(ctx, query, contact.ResponsiblePerson, contact.Phone, time.Now(), id))
}

func (r *NeighborhoodRepository) getOne(row *sql.Row) (types.Neighborhood, error) {
	item, err := scanNeighborhood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Neighborhood{}, ErrNotFound
		}
		return types.Neighborhood{}, err
	}
	return item, nil
}

func scanNeighborhood(row rowScanner) (types.Neighborhood, error) {
	var item types.Neighborhood
	if err := row.Scan(
		&item.ID,
		&item.Value,
		&item.Title,
		&item.ResponsiblePerson,
		&item.Phone,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return types.Neighborhood{}, err
	}
	return item, nil
}
