package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/productdesk/internal/shared/cookie"
	"github.com/andrasnagy-data/productdesk/internal/shared/render"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const sessionKey contextKey = "session"

// Session is what a request knows about its user: the bearer token, or nothing.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool { return s.Token != "" }

// GetSession extracts the session from the request context
func GetSession(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey).(Session)
	return s
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// NewSessionMiddleware decrypts the session cookie, if any, into the request context.
// A cookie that fails to decrypt is cleared and the request continues unauthenticated.
func NewSessionMiddleware(jar *cookie.Jar) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jar.Get(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					hlog.FromRequest(r).Warn().Err(err).Msg("Dropping unreadable session cookie")
					jar.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), Session{Token: token})))
		})
	}
}

// RequireSession protects routes from unauthenticated access by sending the browser to loginPath.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetSession(r.Context()).Authenticated() {
				render.Redirect(w, r, loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthenticated sends users that already hold a token to target.
func RedirectIfAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()).Authenticated() {
				render.Redirect(w, r, target)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
