package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alternativa-centar/site/config"
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

type recordingDispatcher struct {
	got []types.ContactSubmission
}

func (r *recordingDispatcher) Dispatch(_ context.Context, s types.ContactSubmission) error {
	r.got = append(r.got, s)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *recordingDispatcher) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	dispatcher := &recordingDispatcher{}
	neighborhoods := services.NewNeighborhoodService(storetest.NewNeighborhoods(
		types.Neighborhood{ID: "mz-1", Value: "zarkovo", Title: "Žarkovo"},
	))
	svcs := server.Services{
		Users:         services.NewUserService(storetest.NewUsers(types.User{ID: "u1", Username: "admin", PasswordHash: string(hash)})),
		News:          services.NewNewsService(storetest.NewNews(), nil),
		Team:          services.NewTeamService(storetest.NewTeam(), nil),
		Neighborhoods: neighborhoods,
		Videos:        services.NewVideoService(storetest.NewVideos()),
		Contact:       services.NewContactService(neighborhoods, dispatcher),
	}
	sessions := handlers.NewSessions(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour})
	srv := httptest.NewServer(server.NewRouter(svcs, sessions, log, ""))
	t.Cleanup(srv.Close)
	return srv, dispatcher
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.Error(t, err)
}

func TestLoginSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestServer(t)

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.News().List(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = c.Login(ctx, "admin", "wrong")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Empty(t, c.SessionToken())

	user, err := c.Login(ctx, "admin", "password1")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	token := c.SessionToken()
	assert.NotEmpty(t, token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", me.UserID)

	restored, err := New(srv.URL)
	require.NoError(t, err)
	restored.SetSessionToken(token)
	_, err = restored.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.SessionToken())
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResourceCalls(t *testing.T) {
	ctx := context.Background()
	srv, dispatcher := newTestServer(t)

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Login(ctx, "admin", "password1")
	require.NoError(t, err)

	video, err := c.AddVideo(ctx, types.VideoInput{Title: "Intervju", YoutubeID: "dQw4w9WgXcQ"})
	require.NoError(t, err)
	_, err = c.AddVideo(ctx, types.VideoInput{Title: "Intervju", YoutubeID: "dQw4w9WgXcQ"})
	assert.True(t, IsStatus(err, http.StatusConflict))

	videos, err := c.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
	require.NoError(t, c.DeleteVideo(ctx, video.ID))

	items, err := c.ListNeighborhoods(ctx, "žark")
	require.NoError(t, err)
	require.Len(t, items, 1)

	updated, err := c.UpdateNeighborhood(ctx, "mz-1", types.NeighborhoodContact{ResponsiblePerson: "Ana", Phone: "061"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.ResponsiblePerson)

	_, err = c.GetNeighborhood(ctx, "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Neighborhood not found", apiErr.Message)

	err = c.SubmitContact(ctx, types.ContactSubmission{Name: "Ana", Email: "ana@example.com", Phone: "061", Neighborhood: "zarkovo"})
	require.NoError(t, err)
	require.Len(t, dispatcher.got, 1)

	err = c.SubmitContact(ctx, types.ContactSubmission{Name: "Ana"})
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error":"boom"}`)))
	assert.Equal(t, "Failed to send email: relay down", errorMessage([]byte(`{"success":false,"message":"Failed to send email","error":"relay down"}`)))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text\n")))
}
