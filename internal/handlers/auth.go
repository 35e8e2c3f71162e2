package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alternativa-centar/site/config"
	"github.com/alternativa-centar/site/internal/logging"
	"github.com/alternativa-centar/site/internal/services"
	"github.com/alternativa-centar/site/internal/store"
	"github.com/alternativa-centar/site/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "auth-token"

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens and the cookie that
// carries them.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions constructs a Sessions from the auth config. A missing TTL
// falls back to three hours.
func NewSessions(cfg config.AuthConfig) *Sessions {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &Sessions{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		secure: cfg.SecureCookie,
		now:    time.Now,
	}
}

// Issue signs an HS256 session token for user that expires after the TTL.
func (s *Sessions) Issue(user types.SessionUser) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID:   user.UserID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies a session token and returns the identity it carries.
// Tokens without an expiry are rejected.
func (s *Sessions) Parse(tokenString string) (types.SessionUser, error) {
	claims := SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return types.SessionUser{}, err
	}
	if !token.Valid {
		return types.SessionUser{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return types.SessionUser{}, errors.New("missing user id")
	}
	return types.SessionUser{UserID: claims.UserID, Username: claims.Username}, nil
}

// FromRequest verifies the session cookie of r.
func (s *Sessions) FromRequest(r *http.Request) (types.SessionUser, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return types.SessionUser{}, err
	}
	if cookie.Value == "" {
		return types.SessionUser{}, errors.New("empty session cookie")
	}
	return s.Parse(cookie.Value)
}

func (s *Sessions) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Sessions) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// AuthHandler provides login and logout endpoints.
type AuthHandler struct {
	userService *services.UserService
	sessions    *Sessions
	log         logrus.FieldLogger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(userService *services.UserService, sessions *Sessions, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		log:         log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, sessions *Sessions, log logrus.FieldLogger) {
	handler := NewAuthHandler(userService, sessions, log)

	r.Post("/login", handler.Login)
	r.Get("/logout", handler.Logout)
	r.Get("/admin/me", handler.Me)
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "Invalid request"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Message: "Username and password are required"})
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeJSON(w, http.StatusNotFound, AuthResponse{Message: "User not found!"})
		case errors.Is(err, services.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Message: "Wrong password"})
		default:
			logging.FromContext(r.Context(), h.log).WithError(err).Error("login failed")
			writeJSON(w, http.StatusInternalServerError, AuthResponse{Message: "Internal server error", Error: err.Error()})
		}
		return
	}

	session := types.SessionUser{UserID: user.ID, Username: user.Username}
	token, err := h.sessions.Issue(session)
	if err != nil {
		logging.FromContext(r.Context(), h.log).WithError(err).Error("failed to sign session token")
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Message: "Internal server error", Error: err.Error()})
		return
	}

	http.SetCookie(w, h.sessions.cookie(token))
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Login successful", User: &session})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessions.expiredCookie())
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Logged out"})
}

// Me returns the identity of the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *types.SessionUser `json:"user,omitempty"`
	Error   string             `json:"error,omitempty"`
}
