package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRedirectsAnonymousAdminRequests(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/admin"},
		{http.MethodGet, "/admin/dashboard"},
		{http.MethodGet, "/admin/team/edit"},
		{http.MethodGet, "/api/admin/news"},
		{http.MethodPost, "/api/admin/videos"},
		{http.MethodDelete, "/api/admin/team/some-id"},
		{http.MethodPut, "/api/admin/team/order"},
	}
	garbage := &http.Cookie{Name: AuthCookieName, Value: "not-a-jwt"}

	for _, tc := range paths {
		rec := env.do(t, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code, tc.path)
		assert.Equal(t, "/", rec.Header().Get("Location"), tc.path)

		rec = env.do(t, tc.method, tc.path, nil, garbage)
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code, tc.path)
		assert.Equal(t, "/", rec.Header().Get("Location"), tc.path)
	}
}

func TestGuardLoginPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login page", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/login", nil, env.session(t))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestGuardAdmitsValidSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/dashboard", nil, env.session(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard", rec.Body.String())
}

func TestGuardIgnoresPublicPaths(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/news", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/administrator", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassifyPath(t *testing.T) {
	assert.Equal(t, routeLogin, classifyPath("/login"))
	assert.Equal(t, routeLogin, classifyPath("/login/"))
	assert.Equal(t, routeProtected, classifyPath("/admin"))
	assert.Equal(t, routeProtected, classifyPath("/admin/"))
	assert.Equal(t, routeProtected, classifyPath("/api/admin/videos/abc"))
	assert.Equal(t, routePublic, classifyPath("/"))
	assert.Equal(t, routePublic, classifyPath("/loginx"))
	assert.Equal(t, routePublic, classifyPath("/api/administrators"))
}
