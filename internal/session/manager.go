// Package session owns the login/logout lifecycle: it trades credentials
// for a backend token, keeps the token+role pair in the local store, and
// hands it back to the web layer by cookie id. There is no client-side
// expiry and no token refresh.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sajithv/hospmeals/internal/api"
	"github.com/sajithv/hospmeals/internal/domain"
)

// authAPI is the subset of api.Client that Manager requires.
type authAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Register(ctx context.Context, email, password string, role domain.Role) error
}

// sessionRepository is the subset of Store that Manager requires.
type sessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	api    authAPI
	store  sessionRepository
	logger *slog.Logger
}

func NewManager(authClient authAPI, store sessionRepository, logger *slog.Logger) *Manager {
	return &Manager{api: authClient, store: store, logger: logger}
}

// Login exchanges credentials for a backend token and persists the new
// session. A rejected login creates no state at all.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:    uuid.NewString(),
		Token: result.Token,
		Role:  result.Role,
		Email: email,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("login succeeded but session could not be saved: %w", err)
	}

	m.logger.Info("session created", "role", string(sess.Role), "email", email)
	return sess, nil
}

// Register forwards a signup to the backend. The role must be one of the
// three known ones; this is the only place a role string from a form is
// accepted.
func (m *Manager) Register(ctx context.Context, email, password, role string) error {
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return &domain.ValidationError{Fields: []string{"role"}}
	}
	return m.api.Register(ctx, email, password, parsed)
}

// Get resolves a cookie id to its session, or nil when the id is unknown.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	return m.store.Get(ctx, id)
}

// Logout drops the session unconditionally. Calling it twice, or with an
// id that never existed, succeeds.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("session cleared", "session_id", id)
	return nil
}
