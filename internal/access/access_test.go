package access

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajithv/hospmeals/internal/domain"
	"github.com/sajithv/hospmeals/internal/session"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		allowed []domain.Role
		want    bool
	}{
		{"manager in manager-only", domain.RoleManager, []domain.Role{domain.RoleManager}, true},
		{"pantry in manager-only", domain.RolePantry, []domain.Role{domain.RoleManager}, false},
		{"pantry in shared set", domain.RolePantry, []domain.Role{domain.RoleManager, domain.RolePantry}, true},
		{"delivery in shared set", domain.RoleDelivery, []domain.Role{domain.RoleManager, domain.RolePantry}, false},
		{"absent role", domain.Role(""), []domain.Role{domain.RoleManager}, false},
		{"unknown role", domain.Role("janitor"), []domain.Role{domain.RoleManager, domain.RolePantry, domain.RoleDelivery}, false},
		{"empty allowed set", domain.RoleManager, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.role, tt.allowed...))
		})
	}
}

type fakeGetter struct {
	sessions map[string]*session.Session
}

func (f *fakeGetter) Get(_ context.Context, id string) (*session.Session, error) {
	return f.sessions[id], nil
}

func testMiddlewareStack(t *testing.T, getter sessionGetter, allowed ...domain.Role) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
	return Load(getter, "hospmeals_session", logger)(RequireRole(allowed...)(inner))
}

func TestRequireRoleNoCookieRedirectsToLogin(t *testing.T) {
	handler := testMiddlewareStack(t, &fakeGetter{sessions: map[string]*session.Session{}}, domain.RoleManager)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRoleUnknownSessionRedirects(t *testing.T) {
	handler := testMiddlewareStack(t, &fakeGetter{sessions: map[string]*session.Session{}}, domain.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: "hospmeals_session", Value: "stale-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRequireRoleWrongRoleForbidden(t *testing.T) {
	getter := &fakeGetter{sessions: map[string]*session.Session{
		"sid": {ID: "sid", Token: "tok", Role: domain.RoleDelivery},
	}}
	handler := testMiddlewareStack(t, getter, domain.RoleManager, domain.RolePantry)

	req := httptest.NewRequest(http.MethodGet, "/food-charts", nil)
	req.AddCookie(&http.Cookie{Name: "hospmeals_session", Value: "sid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowed(t *testing.T) {
	getter := &fakeGetter{sessions: map[string]*session.Session{
		"sid": {ID: "sid", Token: "tok", Role: domain.RolePantry},
	}}
	handler := testMiddlewareStack(t, getter, domain.RoleManager, domain.RolePantry)

	req := httptest.NewRequest(http.MethodGet, "/food-charts", nil)
	req.AddCookie(&http.Cookie{Name: "hospmeals_session", Value: "sid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page", rec.Body.String())
}

func TestLoadAttachesSession(t *testing.T) {
	getter := &fakeGetter{sessions: map[string]*session.Session{
		"sid": {ID: "sid", Token: "tok", Role: domain.RoleManager, Email: "m@hospital.test"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got *session.Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})
	handler := Load(getter, "hospmeals_session", logger)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "hospmeals_session", Value: "sid"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "m@hospital.test", got.Email)
}

func TestLogoutThenAccessDenied(t *testing.T) {
	// Once the session row is gone, a previously valid cookie is denied.
	getter := &fakeGetter{sessions: map[string]*session.Session{
		"sid": {ID: "sid", Token: "tok", Role: domain.RoleManager},
	}}
	handler := testMiddlewareStack(t, getter, domain.RoleManager)

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: "hospmeals_session", Value: "sid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	delete(getter.sessions, "sid")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
