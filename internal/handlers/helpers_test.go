package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/logging"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store/storetest"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "correct horse"
)

type capturingDispatcher struct {
	got []types.ContactSubmission
	err error
}

func (c *capturingDispatcher) Dispatch(_ context.Context, s types.ContactSubmission) error {
	c.got = append(c.got, s)
	return c.err
}

type testEnv struct {
	router        http.Handler
	sessions      *Sessions
	users         *storetest.Users
	news          *storetest.News
	team          *storetest.Team
	neighborhoods *storetest.Neighborhoods
	videos        *storetest.Videos
	dispatcher    *capturingDispatcher
	logs          *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	env := &testEnv{
		sessions:      NewSessions(config.AuthConfig{JWTSecret: testSecret, TokenTTL: 3 * time.Hour}),
		users:         storetest.NewUsers(types.User{ID: "user-1", Username: "admin", PasswordHash: string(hash)}),
		news:          storetest.NewNews(),
		team:          storetest.NewTeam(),
		neighborhoods: storetest.NewNeighborhoods(types.Neighborhood{ID: "mz-zarkovo", Value: "zarkovo", Title: "Žarkovo"}),
		videos:        storetest.NewVideos(),
		dispatcher:    &capturingDispatcher{},
	}

	log, hook := test.NewNullLogger()
	env.logs = hook

	users := services.NewUserService(env.users)
	news := services.NewNewsService(env.news, nil)
	team := services.NewTeamService(env.team, nil)
	neighborhoods := services.NewNeighborhoodService(env.neighborhoods)
	videos := services.NewVideoService(env.videos)
	contact := services.NewContactService(neighborhoods, env.dispatcher)

	env.router = mountRoutes(env.sessions, log, users, news, team, neighborhoods, videos, contact)
	return env
}

func mountRoutes(
	sessions *Sessions,
	log logrus.FieldLogger,
	users *services.UserService,
	news *services.NewsService,
	team *services.TeamService,
	neighborhoods *services.NeighborhoodService,
	videos *services.VideoService,
	contact *services.ContactService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.RequestLogger(log), RouteGuard(sessions))
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("login page")) })
	r.Get("/admin/dashboard", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("dashboard")) })
	r.Route("/api", func(r chi.Router) {
		AuthRouter(r, users, sessions, log)
		r.Route("/news", func(r chi.Router) { NewsRouter(r, news, log) })
		r.Route("/team", func(r chi.Router) { TeamRouter(r, team, log) })
		r.Route("/neighborhoods", func(r chi.Router) { NeighborhoodRouter(r, neighborhoods, log) })
		r.Route("/videos", func(r chi.Router) { VideoRouter(r, videos, log) })
		r.Route("/contact", func(r chi.Router) { ContactRouter(r, contact, log) })
		r.Route("/admin/news", func(r chi.Router) { AdminNewsRouter(r, news, log) })
		r.Route("/admin/team", func(r chi.Router) { AdminTeamRouter(r, team, log) })
		r.Route("/admin/neighborhoods", func(r chi.Router) { AdminNeighborhoodRouter(r, neighborhoods, log) })
		r.Route("/admin/videos", func(r chi.Router) { AdminVideoRouter(r, videos, log) })
	})
	return r
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// session returns a valid auth cookie without going through login.
func (e *testEnv) session(t *testing.T) *http.Cookie {
	t.Helper()

	token, err := e.sessions.Issue(types.SessionUser{UserID: "user-1", Username: "admin"})
	require.NoError(t, err)
	return &http.Cookie{Name: AuthCookieName, Value: token}
}

func (e *testEnv) entriesAt(level logrus.Level) []logrus.Entry {
	var out []logrus.Entry
	for _, entry := range e.logs.AllEntries() {
		if entry.Level == level {
			out = append(out, *entry)
		}
	}
	return out
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func authCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == AuthCookieName {
			return c
		}
	}
	return nil
}
