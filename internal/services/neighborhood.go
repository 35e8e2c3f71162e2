package services

import (
	"context"
	"errors"
	"strings"

	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
)

// NeighborhoodRepository defines persistence operations for neighborhoods.
type NeighborhoodRepository interface {
	List(ctx context.Context) ([]types.Neighborhood, error)
	Get(ctx context.Context, id string) (types.Neighborhood, error)
	GetByValue(ctx context.Context, value string) (types.Neighborhood, error)
	UpdateContact(ctx context.Context, id string, contact types.NeighborhoodContact) (types.Neighborhood, error)
}

// NeighborhoodService encapsulates neighborhood use-cases.
type NeighborhoodService struct {
	repo NeighborhoodRepository
}

func NewNeighborhoodService(repo NeighborhoodRepository) *NeighborhoodService {
	return &NeighborhoodService{repo: repo}
}

// List returns neighborhoods sorted by title. A non-empty query keeps those
// whose title or responsible person contains it, ignoring script and
// diacritics.
func (s *NeighborhoodService) List(ctx context.Context, query string) ([]types.Neighborhood, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := normalizeForSearch(query)
	if needle == "" {
		return items, nil
	}

	filtered := make([]types.Neighborhood, 0, len(items))
	for _, item := range items {
		if strings.Contains(normalizeForSearch(item.Title), needle) ||
			strings.Contains(normalizeForSearch(item.ResponsiblePerson), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (s *NeighborhoodService) Get(ctx context.Context, id string) (types.Neighborhood, error) {
	return s.repo.Get(ctx, id)
}

func (s *NeighborhoodService) UpdateContact(ctx context.Context, id string, contact types.NeighborhoodContact) (types.Neighborhood, error) {
	contact.ResponsiblePerson = strings.TrimSpace(contact.ResponsiblePerson)
	contact.Phone = strings.TrimSpace(contact.Phone)
	if contact.ResponsiblePerson == "" || contact.Phone == "" {
		return types.Neighborhood{}, invalid("Responsible person and phone are required")
	}
	return s.repo.UpdateContact(ctx, id, contact)
}

// TitleFor resolves a neighborhood slug to its display title, falling back
// to the slug itself when it is unknown.
func (s *NeighborhoodService) TitleFor(ctx context.Context, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	item, err := s.repo.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return value, nil
		}
		return "", err
	}
	return item.Title, nil
}
