package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eventsathi/esadmin/internal/model"
)

// CreateAdmin inserts a new admin account. The ID and CreatedAt fields on a
// are populated after a successful insert. A duplicate email returns
// ErrConflict.
func (s *Store) CreateAdmin(ctx context.Context, a *model.AdminUser) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	const q = `INSERT INTO admin_users
		(email, password_hash, admin_type, is_active, created_by, last_login_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, q,
		a.Email, a.PasswordHash, a.AdminType, a.IsActive, a.CreatedBy, a.LastLoginAt, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	a.ID = id
	return nil
}

// GetAdminByEmail returns an admin account by its unique email.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	var a model.AdminUser
	err := s.db.GetContext(ctx, &a, s.rebind("SELECT * FROM admin_users WHERE email = ?"), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &a, nil
}

// GetAdmin returns an admin account by ID.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.AdminUser, error) {
	var a model.AdminUser
	err := s.db.GetContext(ctx, &a, s.rebind("SELECT * FROM admin_users WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

// GetOrCreateTopAdmin returns the top admin row for the bootstrap email,
// creating it on first login. Concurrent first logins race on the insert;
// the unique email constraint makes one of them lose, and the loser re-reads
// the winner's row. This is the only code path that produces a `top` account.
func (s *Store) GetOrCreateTopAdmin(ctx context.Context, email, passwordHash string) (*model.AdminUser, error) {
	a, err := s.GetAdminByEmail(ctx, email)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created := &model.AdminUser{
		Email:        email,
		PasswordHash: passwordHash,
		AdminType:    model.AdminTop,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	switch err := s.CreateAdmin(ctx, created); {
	case err == nil:
		return created, nil
	case errors.Is(err, ErrConflict):
		// Lost the race; another login created the row.
		return s.GetAdminByEmail(ctx, email)
	default:
		return nil, err
	}
}

// ListSubAdmins returns every subordinate account, newest first.
func (s *Store) ListSubAdmins(ctx context.Context) ([]model.AdminUser, error) {
	var admins []model.AdminUser
	err := s.db.SelectContext(ctx, &admins,
		s.rebind("SELECT * FROM admin_users WHERE admin_type = ? ORDER BY created_at DESC, id DESC"),
		model.AdminSub)
	if err != nil {
		return nil, fmt.Errorf("list sub-admins: %w", err)
	}
	return admins, nil
}

// CountSubAdmins returns the number of subordinate accounts.
func (s *Store) CountSubAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		s.rebind("SELECT COUNT(*) FROM admin_users WHERE admin_type = ?"), model.AdminSub)
	if err != nil {
		return 0, fmt.Errorf("count sub-admins: %w", err)
	}
	return n, nil
}

// TouchAdminLogin records a successful login time.
func (s *Store) TouchAdminLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admin_users SET last_login_at = ? WHERE id = ?"), at, id)
	if err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return nil
}

// RemoveSubAdmin revokes every session of the named subordinate and deletes
// the account, in one transaction. The session rows themselves are kept for
// audit; only the account row goes away. Returns ErrNotFound if no
// subordinate with that email exists (top admins are not removable here).
func (s *Store) RemoveSubAdmin(ctx context.Context, email string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove sub-admin: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.GetContext(ctx, &id,
		s.rebind("SELECT id FROM admin_users WHERE email = ? AND admin_type = ?"),
		email, model.AdminSub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find sub-admin: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		s.rebind("UPDATE admin_sessions SET is_active = FALSE WHERE admin_user_id = ?"), id); err != nil {
		return fmt.Errorf("revoke sub-admin sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		s.rebind("DELETE FROM admin_users WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete sub-admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove sub-admin: %w", err)
	}
	return nil
}
