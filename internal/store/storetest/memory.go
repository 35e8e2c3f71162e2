// Package storetest provides in-memory repositories with the same ordering
// and error semantics as the Postgres ones in package store.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
	"github.com/google/uuid"
)

// Faults makes every call on a repository fail with Err while it is set.
type Faults struct {
	mu  sync.Mutex
	err error
}

func (f *Faults) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *Faults) check() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

type Users struct {
	Faults
	mu    sync.Mutex
	users map[string]types.User
}

func NewUsers(users ...types.User) *Users {
	r := &Users{users: map[string]types.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *Users) GetByID(_ context.Context, id string) (types.User, error) {
	if err := r.check(); err != nil {
		return types.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (types.User, error) {
	if err := r.check(); err != nil {
		return types.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *Users) Upsert(_ context.Context, username, passwordHash string) (types.User, error) {
	if err := r.check(); err != nil {
		return types.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for id, u := range r.users {
		if u.Username == username {
			u.PasswordHash = passwordHash
			u.UpdatedAt = now
			r.users[id] = u
			return u, nil
		}
	}
	u := types.User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	r.users[u.ID] = u
	return u, nil
}

type News struct {
	Faults
	mu       sync.Mutex
	articles map[string]types.NewsArticle
	clock    time.Time
}

func NewNews() *News {
	return &News{articles: map[string]types.NewsArticle{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// tick returns strictly increasing timestamps so "newest first" is
// deterministic.
func (r *News) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *News) sorted() []types.NewsArticle {
	items := make([]types.NewsArticle, 0, len(r.articles))
	for _, a := range r.articles {
		items = append(items, a)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (r *News) ListPublished(_ context.Context, limit int) ([]types.NewsSummary, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []types.NewsSummary{}
	for _, a := range r.sorted() {
		if !a.Published {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, types.NewsSummary{ID: a.ID, Title: a.Title, Image: a.Image, CreatedAt: a.CreatedAt})
	}
	return out, nil
}

func (r *News) ListAll(_ context.Context) ([]types.NewsArticle, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *News) Get(_ context.Context, id string) (types.NewsArticle, error) {
	if err := r.check(); err != nil {
		return types.NewsArticle{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return types.NewsArticle{}, store.ErrNotFound
	}
	return a, nil
}

func (r *News) Create(_ context.Context, article types.NewsArticle) (types.NewsArticle, error) {
	if err := r.check(); err != nil {
		return types.NewsArticle{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.tick()
	article.ID = uuid.NewString()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.PublishDate.IsZero() {
		article.PublishDate = now
	}
	r.articles[article.ID] = article
	return article, nil
}

func (r *News) Update(_ context.Context, article types.NewsArticle) (types.NewsArticle, error) {
	if err := r.check(); err != nil {
		return types.NewsArticle{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.articles[article.ID]
	if !ok {
		return types.NewsArticle{}, store.ErrNotFound
	}
	existing.Title = article.Title
	existing.Content = article.Content
	existing.Image = article.Image
	existing.Published = article.Published
	if !article.PublishDate.IsZero() {
		existing.PublishDate = article.PublishDate
	}
	existing.UpdatedAt = r.tick()
	r.articles[article.ID] = existing
	return existing, nil
}

func (r *News) Delete(_ context.Context, id string) error {
	if err := r.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.articles, id)
	return nil
}

type Team struct {
	Faults
	mu      sync.Mutex
	members map[string]types.TeamMember
}

func NewTeam(members ...types.TeamMember) *Team {
	r := &Team{members: map[string]types.TeamMember{}}
	for _, m := range members {
		r.members[m.ID] = m
	}
	return r
}

func (r *Team) List(_ context.Context) ([]types.TeamMember, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]types.TeamMember, 0, len(r.members))
	for _, m := range r.members {
		items = append(items, m)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *Team) Get(_ context.Context, id string) (types.TeamMember, error) {
	if err := r.check(); err != nil {
		return types.TeamMember{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return types.TeamMember{}, store.ErrNotFound
	}
	return m, nil
}

func (r *Team) Create(_ context.Context, member types.TeamMember) (types.TeamMember, error) {
	if err := r.check(); err != nil {
		return types.TeamMember{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	member.ID = uuid.NewString()
	member.CreatedAt = now
	member.UpdatedAt = now
	r.members[member.ID] = member
	return member, nil
}

func (r *Team) Update(_ context.Context, id string, input types.TeamMemberInput) (types.TeamMember, error) {
	if err := r.check(); err != nil {
		return types.TeamMember{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return types.TeamMember{}, store.ErrNotFound
	}
	m.Name = input.Name
	m.Position = input.Position
	m.Image = input.Image
	m.Biography = input.Biography
	if input.Order != nil {
		m.Order = *input.Order
	}
	m.UpdatedAt = time.Now()
	r.members[id] = m
	return m, nil
}

func (r *Team) SetOrders(_ context.Context, orders []types.TeamOrder) error {
	if err := r.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		if _, ok := r.members[o.ID]; !ok {
			return store.ErrNotFound
		}
	}
	for _, o := range orders {
		m := r.members[o.ID]
		m.Order = o.Order
		r.members[o.ID] = m
	}
	return nil
}

func (r *Team) Delete(_ context.Context, id string) error {
	if err := r.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

type Neighborhoods struct {
	Faults
	mu    sync.Mutex
	items map[string]types.Neighborhood
}

func NewNeighborhoods(items ...types.Neighborhood) *Neighborhoods {
	r := &Neighborhoods{items: map[string]types.Neighborhood{}}
	for _, n := range items {
		r.items[n.ID] = n
	}
	return r
}

func (r *Neighborhoods) List(_ context.Context) ([]types.Neighborhood, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]types.Neighborhood, 0, len(r.items))
	for _, n := range r.items {
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	return items, nil
}

func (r *Neighborhoods) Get(_ context.Context, id string) (types.Neighborhood, error) {
	if err := r.check(); err != nil {
		return types.Neighborhood{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return types.Neighborhood{}, store.ErrNotFound
	}
	return n, nil
}

func (r *Neighborhoods) GetByValue(_ context.Context, value string) (types.Neighborhood, error) {
	if err := r.check(); err != nil {
		return types.Neighborhood{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.Value == value {
			return n, nil
		}
	}
	return types.Neighborhood{}, store.ErrNotFound
}

func (r *Neighborhoods) UpdateContact(_ context.Context, id string, contact types.NeighborhoodContact) (types.Neighborhood, error) {
	if err := r.check(); err != nil {
		return types.Neighborhood{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return types.Neighborhood{}, store.ErrNotFound
	}
	n.ResponsiblePerson = contact.ResponsiblePerson
	n.Phone = contact.Phone
	n.UpdatedAt = time.Now()
	r.items[id] = n
	return n, nil
}

type Videos struct {
	Faults
	mu     sync.Mutex
	videos []types.Video
}

func NewVideos(videos ...types.Video) *Videos {
	return &Videos{videos: append([]types.Video(nil), videos...)}
}

func (r *Videos) List(_ context.Context, limit int) ([]types.Video, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]types.Video{}, r.videos...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Videos) CreateCapped(_ context.Context, video types.Video, max int) (types.Video, error) {
	if err := r.check(); err != nil {
		return types.Video{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.videos) >= max {
		return types.Video{}, store.ErrLimitReached
	}
	for _, v := range r.videos {
		if v.ID == video.ID {
			return types.Video{}, store.ErrConflict
		}
	}
	video.CreatedAt = time.Now()
	r.videos = append(r.videos, video)
	return video, nil
}

func (r *Videos) Delete(_ context.Context, id string) error {
	if err := r.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, v := range r.videos {
		if v.ID == id {
			r.videos = append(r.videos[:i], r.videos[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
