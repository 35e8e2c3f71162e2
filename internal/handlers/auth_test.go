package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "admin", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, authCookie(rec))

	resp := decode[AuthResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Wrong password", resp.Message)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "ghost", Password: "whatever"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found!", decode[AuthResponse](t, rec).Message)
	assert.Nil(t, authCookie(rec))
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode[AuthResponse](t, rec).Success)
}

func TestLoginStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.users.Fail(assert.AnError)

	rec := env.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "admin", Password: testPassword})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[AuthResponse](t, rec)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.NotEmpty(t, env.entriesAt(logrus.ErrorLevel))
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "admin", Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AuthResponse](t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, types.SessionUser{UserID: "user-1", Username: "admin"}, *resp.User)

	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 10800, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	session, err := env.sessions.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/logout", nil, env.session(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[AuthResponse](t, rec).Success)

	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestSessionsRejectTamperedAndExpiredTokens(t *testing.T) {
	sessions := NewSessions(config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour})
	user := types.SessionUser{UserID: "user-1", Username: "admin"}

	token, err := sessions.Issue(user)
	require.NoError(t, err)

	other := NewSessions(config.AuthConfig{JWTSecret: "another-secret", TokenTTL: time.Hour})
	_, err = other.Parse(token)
	assert.Error(t, err)

	sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = sessions.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	sessions.now = time.Now
	_, err = sessions.Parse(unsigned)
	assert.Error(t, err)
}

func TestMeReturnsSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/me", nil, env.session(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[types.SessionUser](t, rec).Username)
}
