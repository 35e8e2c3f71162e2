package services

import (
	"bytes"
	"context"
	"strings"

	"github.com/alternativa-centar/site/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const teamImageCollection = "team"

// TeamRepository defines persistence operations for team members.
type TeamRepository interface {
	List(ctx context.Context) ([]types.TeamMember, error)
	Get(ctx context.Context, id string) (types.TeamMember, error)
	Create(ctx context.Context, member types.TeamMember) (types.TeamMember, error)
	Update(ctx context.Context, id string, input types.TeamMemberInput) (types.TeamMember, error)
	SetOrders(ctx context.Context, orders []types.TeamOrder) error
	Delete(ctx context.Context, id string) error
}

// TeamService encapsulates team use-cases.
type TeamService struct {
	repo     TeamRepository
	images   ImageProcessor
	markdown goldmark.Markdown
}

func NewTeamService(repo TeamRepository, images ImageProcessor) *TeamService {
	return &TeamService{
		repo:   repo,
		images: orInline(images),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// List returns members in display order with rendered biographies.
func (s *TeamService) List(ctx context.Context) ([]types.TeamMember, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].BiographyHTML = s.renderBiography(members[i].Biography)
	}
	return members, nil
}

func (s *TeamService) Get(ctx context.Context, id string) (types.TeamMember, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a member. Without an explicit order the member goes last.
func (s *TeamService) Create(ctx context.Context, input types.TeamMemberInput) (types.TeamMember, error) {
	input, err := s.prepare(ctx, input, "")
	if err != nil {
		return types.TeamMember{}, err
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		next, err := s.NextOrder(ctx)
		if err != nil {
			return types.TeamMember{}, err
		}
		order = next
	}

	created, err := s.repo.Create(ctx, types.TeamMember{
		Name:      input.Name,
		Position:  input.Position,
		Image:     input.Image,
		Biography: input.Biography,
		Order:     order,
	})
	if err != nil {
		s.images.Discard(ctx, input.Image)
		return types.TeamMember{}, err
	}
	return created, nil
}

func (s *TeamService) Update(ctx context.Context, id string, input types.TeamMemberInput) (types.TeamMember, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.TeamMember{}, err
	}

	input, err = s.prepare(ctx, input, existing.Image)
	if err != nil {
		return types.TeamMember{}, err
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if input.Image != existing.Image {
			s.images.Discard(ctx, input.Image)
		}
		return types.TeamMember{}, err
	}
	if existing.Image != updated.Image {
		s.images.Discard(ctx, existing.Image)
	}
	return updated, nil
}

// Reorder applies a batch of position changes atomically.
func (s *TeamService) Reorder(ctx context.Context, orders []types.TeamOrder) error {
	if len(orders) == 0 {
		return invalid("At least one order entry is required")
	}
	seen := make(map[string]struct{}, len(orders))
	for i := range orders {
		orders[i].ID = strings.TrimSpace(orders[i].ID)
		if orders[i].ID == "" {
			return invalid("Every order entry needs an id")
		}
		if _, dup := seen[orders[i].ID]; dup {
			return invalid("Duplicate id in order entries")
		}
		seen[orders[i].ID] = struct{}{}
	}
	return s.repo.SetOrders(ctx, orders)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
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

// NextOrder is one past the highest order in use.
func (s *TeamService) NextOrder(ctx context.Context) (int, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return nextOrder(members), nil
}

func nextOrder(members []types.TeamMember) int {
	next := 1
	for _, m := range members {
		if m.Order >= next {
			next = m.Order + 1
		}
	}
	return next
}

func (s *TeamService) prepare(ctx context.Context, input types.TeamMemberInput, current string) (types.TeamMemberInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Position = strings.TrimSpace(input.Position)
	input.Biography = strings.TrimSpace(input.Biography)
	if input.Name == "" || input.Position == "" {
		return input, invalid("Name and position are required")
	}

	image, err := normalizeImage(ctx, s.images, teamImageCollection, input.Image, current)
	if err != nil {
		return input, err
	}
	input.Image = image
	return input, nil
}

func (s *TeamService) renderBiography(biography string) string {
	if strings.TrimSpace(biography) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(biography), &buf); err != nil {
		return ""
	}
	return buf.String()
}
