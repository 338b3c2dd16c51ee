package middleware

import (
	"net/http"
	"time"

	"github.com/omnia-aid/omnia/internal/auth"
)

const SessionCookieName = "omnia_session"

// RequireAuth validates the session token cookie and populates AuthContext.
// The role is carried along but never checked. Missing or invalid tokens
// are sent to /login with a 303.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			ac, err := tokens.Parse(cookie.Value)
			if err != nil {
				ClearSessionCookie(w)
				redirectToLogin(w, r)
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates AuthContext when a valid cookie is present and
// lets every request through.
func OptionalAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if ac, err := tokens.Parse(cookie.Value); err == nil {
					r = r.WithContext(auth.WithAuth(r.Context(), ac))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
