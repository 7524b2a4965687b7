// Package access gates navigation by role. The check is advisory UX
// gating only: the backend authorizes every data call on its own, this
// package just decides which pages are worth rendering.
package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sajithv/hospmeals/internal/domain"
	"github.com/sajithv/hospmeals/internal/session"
)

// CanAccess reports whether a role may reach a route restricted to the
// allowed set. An absent role (empty string) and a role the backend made
// up both fail every check.
func CanAccess(role domain.Role, allowed ...domain.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithSession stores the resolved session on the request context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session set by the Load middleware, or nil.
func FromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(contextKey{}).(*session.Session)
	return sess
}

// sessionGetter is the subset of session.Manager the middleware requires.
type sessionGetter interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Load resolves the session cookie into a session and attaches it to the
// request context. An unknown or missing cookie just leaves the context
// without a session; the route guards decide what that means.
func Load(mgr sessionGetter, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := mgr.Get(r.Context(), cookie.Value)
			if err != nil {
				logger.Error("session lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireRole guards a route group. No session redirects to the login
// page; a session with the wrong role gets a 403. The two outcomes are
// deliberately distinct so staff see "not allowed" rather than a login
// form they already passed.
func RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := FromContext(r.Context())
			if sess == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !CanAccess(sess.Role, allowed...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
