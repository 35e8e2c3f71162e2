package editor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/client"
	"github.com/alternativa-centar/site/internal/handlers"
	"github.com/alternativa-centar/site/internal/server"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store/storetest"
	"github.com/alternativa-centar/site/types"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type site struct {
	client *client.Client
	team   *storetest.Team
}

func newSite(t *testing.T, members ...types.TeamMember) site {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	team := storetest.NewTeam(members...)
	neighborhoods := services.NewNeighborhoodService(storetest.NewNeighborhoods())
	svcs := server.Services{
		Users:         services.NewUserService(storetest.NewUsers(types.User{ID: "u1", Username: "admin", PasswordHash: string(hash)})),
		News:          services.NewNewsService(storetest.NewNews(), nil),
		Team:          services.NewTeamService(team, nil),
		Neighborhoods: neighborhoods,
		Videos:        services.NewVideoService(storetest.NewVideos()),
		Contact:       services.NewContactService(neighborhoods, nil),
	}
	sessions := handlers.NewSessions(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour})
	srv := httptest.NewServer(server.NewRouter(svcs, sessions, log, ""))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), "admin", "password1")
	require.NoError(t, err)

	return site{client: c, team: team}
}

func TestNewsEditorLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newSite(t)
	ed := New[types.NewsArticle, types.NewsInput](s.client.News(), NewsSchema)

	assert.Equal(t, ModeCreate, ed.Mode())
	_, err := ed.Select(ctx, "anything")
	assert.ErrorIs(t, err, ErrWrongMode)

	ed.SetForm(types.NewsInput{Title: "Prva vest", Content: "<p>Tekst</p>"})
	first, err := ed.Submit(ctx)
	require.NoError(t, err)
	assert.Empty(t, ed.Form().Title)

	ed.SetForm(types.NewsInput{Title: "Druga vest", Content: "<p>Tekst</p>", Published: true})
	second, err := ed.Submit(ctx)
	require.NoError(t, err)

	items, err := ed.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)

	ed.SetMode(ModeEdit)
	assert.Empty(t, ed.Form().Title)
	_, err = ed.Submit(ctx)
	assert.ErrorIs(t, err, ErrNothingSelected)

	rev := ed.Revision()
	_, err = ed.Select(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, rev+1, ed.Revision())
	assert.Equal(t, "Prva vest", ed.Form().Title)

	form := ed.Form()
	form.Title = "Prva vest (izmenjena)"
	ed.SetForm(form)
	updated, err := ed.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Prva vest (izmenjena)", updated.Title)
	assert.Equal(t, ModeCreate, ed.Mode())
	assert.Empty(t, ed.Selected())

	items, err = ed.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Prva vest (izmenjena)", items[1].Title)

	ed.SetMode(ModeDelete)
	assert.ErrorIs(t, ed.ConfirmDelete(ctx), ErrNothingSelected)
	_, err = ed.Select(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, rev+1, ed.Revision())
	require.NoError(t, ed.ConfirmDelete(ctx))

	items, err = ed.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
	assert.False(t, ed.Stale())
}

func TestFailedMutationInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	s := newSite(t)
	ed := New[types.NewsArticle, types.NewsInput](s.client.News(), NewsSchema)
	require.NoError(t, ed.Load(ctx))

	ed.SetForm(types.NewsInput{Title: "Bez teksta"})
	_, err := ed.Submit(ctx)
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	assert.True(t, ed.Stale())

	items, err := ed.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, ed.Stale())
}

func TestTeamEditorDefaultsOrder(t *testing.T) {
	ctx := context.Background()
	s := newSite(t,
		types.TeamMember{ID: "a", Name: "Ana", Position: "P", Order: 1},
		types.TeamMember{ID: "b", Name: "Boris", Position: "P", Order: 7},
	)
	ed := NewTeamEditor(s.client.Team())
	require.NoError(t, ed.Load(ctx))

	ed.SetMode(ModeCreate)
	require.NotNil(t, ed.Form().Order)
	assert.Equal(t, 8, *ed.Form().Order)

	form := ed.Form()
	form.Name = "Cveta"
	form.Position = "P"
	ed.SetForm(form)
	created, err := ed.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, created.Order)
	assert.Equal(t, 9, *ed.Form().Order)
}

func TestTeamEditorMove(t *testing.T) {
	ctx := context.Background()
	s := newSite(t,
		types.TeamMember{ID: "a", Name: "Ana", Position: "P", Order: 1},
		types.TeamMember{ID: "b", Name: "Boris", Position: "P", Order: 2},
		types.TeamMember{ID: "c", Name: "Cveta", Position: "P", Order: 3},
	)
	ed := NewTeamEditor(s.client.Team())

	require.NoError(t, ed.Move(ctx, "c", Up))
	items, err := ed.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
	assert.Equal(t, []int{1, 2, 3}, orders(items))

	stored, err := s.team.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(stored))

	require.NoError(t, ed.Move(ctx, "a", Up))
	require.NoError(t, ed.Move(ctx, "b", Down))
	items, err = ed.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))

	assert.Error(t, ed.Move(ctx, "ghost", Down))
}

type failingReorder struct {
	TeamResource
	err error
}

func (f failingReorder) Reorder(context.Context, []types.TeamOrder) error {
	return f.err
}

func TestTeamEditorMoveFailureRefetches(t *testing.T) {
	ctx := context.Background()
	s := newSite(t,
		types.TeamMember{ID: "a", Name: "Ana", Position: "P", Order: 1},
		types.TeamMember{ID: "b", Name: "Boris", Position: "P", Order: 2},
	)
	boom := errors.New("network down")
	ed := NewTeamEditor(failingReorder{TeamResource: s.client.Team(), err: boom})

	err := ed.Move(ctx, "b", Up)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ed.Stale())

	items, err := ed.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(items))
}

func TestParseHelpers(t *testing.T) {
	for _, m := range []Mode{ModeCreate, ModeEdit, ModeDelete} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMode("publish")
	assert.Error(t, err)

	d, err := ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, Down, d)
	_, err = ParseDirection("left")
	assert.Error(t, err)
}

func ids(members []types.TeamMember) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.ID
	}
	return out
}

func orders(members []types.TeamMember) []int {
	out := make([]int, len(members))
	for i, m := range members {
		out[i] = m.Order
	}
	return out
}
