package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sajithv/hospmeals/internal/domain"
)

// Session is the token+role pair for one signed-in browser, keyed by the
// opaque id kept in the session cookie. It never expires locally; a 401
// from the backend is the only expiry signal.
type Session struct {
	ID        string
	Token     string
	Role      domain.Role
	Email     string
	CreatedAt time.Time
}

// Store persists sessions in the local sqlite database so a restart of the
// front-end does not sign everyone out.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, role, email) VALUES (?, ?, ?, ?)
	`, sess.ID, sess.Token, string(sess.Role), sess.Email)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, role, email, created_at FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Token, &role, &sess.Email, &sess.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess.Role = domain.Role(role)
	return sess, nil
}

// Delete removes a session. Deleting an id that does not exist is not an
// error; logout is idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
