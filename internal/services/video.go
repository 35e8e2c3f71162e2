package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/alternativa-centar/site/types"
)

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// VideoRepository defines persistence operations for featured videos.
type VideoRepository interface {
	List(ctx context.Context, limit int) ([]types.Video, error)
	CreateCapped(ctx context.Context, video types.Video, max int) (types.Video, error)
	Delete(ctx context.Context, id string) error
}

// VideoService encapsulates video use-cases.
type VideoService struct {
	repo VideoRepository
}

func NewVideoService(repo VideoRepository) *VideoService {
	return &VideoService{repo: repo}
}

// List returns the featured videos, oldest first.
func (s *VideoService) List(ctx context.Context) ([]types.Video, error) {
	return s.repo.List(ctx, types.MaxVideos)
}

// Create adds a video. A full collection yields store.ErrLimitReached and a
// duplicate id store.ErrConflict.
func (s *VideoService) Create(ctx context.Context, input types.VideoInput) (types.Video, error) {
	title := strings.TrimSpace(input.Title)
	id := strings.TrimSpace(input.YoutubeID)
	if title == "" || id == "" {
		return types.Video{}, invalid("Title and YouTube ID are required")
	}
	if !youtubeIDPattern.MatchString(id) {
		return types.Video{}, invalid("Invalid YouTube ID")
	}
	return s.repo.CreateCapped(ctx, types.Video{ID: id, Title: title}, types.MaxVideos)
}

func (s *VideoService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
