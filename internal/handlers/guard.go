package handlers

import (
	"context"
	"net/http"
	"strings"
)

const (
	loginPath     = "/login"
	dashboardPath = "/admin/dashboard"
)

type guardedRoute int

const (
	routePublic guardedRoute = iota
	routeLogin
	routeProtected
)

func classifyPath(path string) guardedRoute {
	path = strings.TrimSuffix(path, "/")
	switch {
	case path == loginPath:
		return routeLogin
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return routeProtected
	case path == "/api/admin" || strings.HasPrefix(path, "/api/admin/"):
		return routeProtected
	default:
		return routePublic
	}
}

// RouteGuard checks the session cookie on the login page and the admin
// surface. Anonymous requests for admin paths are redirected home and
// signed-in visits to the login page go to the dashboard. Other paths are
// untouched.
func RouteGuard(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := classifyPath(r.URL.Path)
			if route == routePublic {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.FromRequest(r)
			valid := err == nil

			switch {
			case route == routeLogin && valid:
				http.Redirect(w, r, dashboardPath, http.StatusTemporaryRedirect)
			case route == routeLogin:
				next.ServeHTTP(w, r)
			case !valid:
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			default:
				ctx := context.WithValue(r.Context(), contextSessionKey, session)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}
