package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eventsathi/esadmin/internal/model"
)

// CreateSession inserts a new login session. The ID field on sess is
// populated after a successful insert. Token collisions are left to the
// entropy of the token source; the unique constraint turns the astronomically
// unlikely collision into an error instead of a silent overwrite.
func (s *Store) CreateSession(ctx context.Context, sess *model.AdminSession) error {
	const q = `INSERT INTO admin_sessions
		(admin_user_id, token, ip_address, user_agent, is_active, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, q,
		sess.AdminID, sess.Token, sess.IPAddress, sess.UserAgent, sess.IsActive,
		sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert session: %w", err)
	}
	sess.ID = id
	return nil
}

// GetSessionByToken returns the session row for a token regardless of its
// active or expiry state.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*model.AdminSession, error) {
	var sess model.AdminSession
	err := s.db.GetContext(ctx, &sess,
		s.rebind("SELECT * FROM admin_sessions WHERE token = ?"), token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// ActiveAdminForToken resolves a token to its owning admin account. It
// succeeds only for an active, unexpired session belonging to an active
// account; every failure is ErrNotFound so callers cannot tell an unknown
// token from an expired or revoked one.
func (s *Store) ActiveAdminForToken(ctx context.Context, token string, now time.Time) (*model.AdminUser, error) {
	const q = `SELECT u.* FROM admin_users u
		JOIN admin_sessions s ON s.admin_user_id = u.id
		WHERE s.token = ? AND s.is_active = TRUE AND s.expires_at > ? AND u.is_active = TRUE`

	var a model.AdminUser
	err := s.db.GetContext(ctx, &a, s.rebind(q), token, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return &a, nil
}

// RevokeSessionByToken deactivates a session. Revoking an already-inactive
// session succeeds (the operation is idempotent); only a token with no row
// at all returns ErrNotFound.
func (s *Store) RevokeSessionByToken(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admin_sessions SET is_active = FALSE WHERE token = ?"), token)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke session rows affected: %w", err)
	}
	if n == 0 {
		// MySQL reports changed rows, not matched rows, so a no-op update on
		// an already-inactive session also lands here. Distinguish it.
		if _, getErr := s.GetSessionByToken(ctx, token); getErr == nil {
			return nil
		}
		return ErrNotFound
	}
	return nil
}

// RevokeSessionsForAdmin deactivates every session owned by the admin and
// returns how many were still active.
func (s *Store) RevokeSessionsForAdmin(ctx context.Context, adminID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admin_sessions SET is_active = FALSE WHERE admin_user_id = ? AND is_active = TRUE"),
		adminID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions for admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke sessions rows affected: %w", err)
	}
	return n, nil
}

// SessionsForAdmin returns every session owned by the admin, newest first.
func (s *Store) SessionsForAdmin(ctx context.Context, adminID int64) ([]model.AdminSession, error) {
	var sessions []model.AdminSession
	err := s.db.SelectContext(ctx, &sessions,
		s.rebind("SELECT * FROM admin_sessions WHERE admin_user_id = ? ORDER BY created_at DESC, id DESC"),
		adminID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
