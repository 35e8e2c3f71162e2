package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/alternativa-centar/site/types"
)

// NewsResource manages news articles through the admin API.
type NewsResource struct {
	c *Client
}

func (c *Client) News() *NewsResource {
	return &NewsResource{c: c}
}

func (r *NewsResource) List(ctx context.Context) ([]types.NewsArticle, error) {
	var items []types.NewsArticle
	err := r.c.do(ctx, http.MethodGet, "/api/admin/news", nil, &items)
	return items, err
}

func (r *NewsResource) Get(ctx context.Context, id string) (types.NewsArticle, error) {
	var item types.NewsArticle
	err := r.c.do(ctx, http.MethodGet, "/api/admin/news/"+url.PathEscape(id), nil, &item)
	return item, err
}

func (r *NewsResource) Create(ctx context.Context, input types.NewsInput) (types.NewsArticle, error) {
	var item types.NewsArticle
	err := r.c.do(ctx, http.MethodPost, "/api/admin/news", input, &item)
	return item, err
}

func (r *NewsResource) Update(ctx context.Context, id string, input types.NewsInput) (types.NewsArticle, error) {
	var item types.NewsArticle
	err := r.c.do(ctx, http.MethodPut, "/api/admin/news/"+url.PathEscape(id), input, &item)
	return item, err
}

func (r *NewsResource) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/api/admin/news/"+url.PathEscape(id), nil, nil)
}

// TeamResource manages team members through the admin API.
type TeamResource struct {
	c *Client
}

func (c *Client) Team() *TeamResource {
	return &TeamResource{c: c}
}

func (r *TeamResource) List(ctx context.Context) ([]types.TeamMember, error) {
	var items []types.TeamMember
	err := r.c.do(ctx, http.MethodGet, "/api/admin/team", nil, &items)
	return items, err
}

func (r *TeamResource) Get(ctx context.Context, id string) (types.TeamMember, error) {
	var item types.TeamMember
	err := r.c.do(ctx, http.MethodGet, "/api/admin/team/"+url.PathEscape(id), nil, &item)
	return item, err
}

func (r *TeamResource) Create(ctx context.Context, input types.TeamMemberInput) (types.TeamMember, error) {
	var item types.TeamMember
	err := r.c.do(ctx, http.MethodPost, "/api/admin/team", input, &item)
	return item, err
}

func (r *TeamResource) Update(ctx context.Context, id string, input types.TeamMemberInput) (types.TeamMember, error) {
	var item types.TeamMember
	err := r.c.do(ctx, http.MethodPut, "/api/admin/team/"+url.PathEscape(id), input, &item)
	return item, err
}

func (r *TeamResource) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/api/admin/team/"+url.PathEscape(id), nil, nil)
}

// Reorder sends a batch of position changes in one request.
func (r *TeamResource) Reorder(ctx context.Context, orders []types.TeamOrder) error {
	return r.c.do(ctx, http.MethodPut, "/api/admin/team/order", orders, nil)
}

func (c *Client) ListNeighborhoods(ctx context.Context, query string) ([]types.Neighborhood, error) {
	path := "/api/neighborhoods"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var items []types.Neighborhood
	err := c.do(ctx, http.MethodGet, path, nil, &items)
	return items, err
}

func (c *Client) GetNeighborhood(ctx context.Context, id string) (types.Neighborhood, error) {
	var item types.Neighborhood
	err := c.do(ctx, http.MethodGet, "/api/admin/neighborhoods/"+url.PathEscape(id), nil, &item)
	return item, err
}

func (c *Client) UpdateNeighborhood(ctx context.Context, id string, contact types.NeighborhoodContact) (types.Neighborhood, error) {
	var item types.Neighborhood
	err := c.do(ctx, http.MethodPut, "/api/admin/neighborhoods/"+url.PathEscape(id), contact, &item)
	return item, err
}

func (c *Client) ListVideos(ctx context.Context) ([]types.Video, error) {
	var items []types.Video
	err := c.do(ctx, http.MethodGet, "/api/admin/videos", nil, &items)
	return items, err
}

func (c *Client) AddVideo(ctx context.Context, input types.VideoInput) (types.Video, error) {
	var item types.Video
	err := c.do(ctx, http.MethodPost, "/api/admin/videos", input, &item)
	return item, err
}

func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/videos/"+url.PathEscape(id), nil, nil)
}
