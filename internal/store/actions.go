package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventsathi/esadmin/internal/model"
)

// RecordVendorAction appends a ledger entry for a moderation action against
// a vendor and applies its effect, in one transaction. Block and unblock
// toggle the vendor's verification flag; remove deactivates the owning user
// account and leaves the verification flag alone. Returns ErrNotFound if the
// vendor does not exist; in that case nothing is written.
func (s *Store) RecordVendorAction(ctx context.Context, act *model.ModerationAction) error {
	if act.CreatedAt.IsZero() {
		act.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vendor action: %w", err)
	}
	defer tx.Rollback()

	var userID int64
	err = tx.GetContext(ctx, &userID,
		s.rebind("SELECT user_id FROM vendors WHERE id = ?"), act.TargetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find vendor: %w", err)
	}

	id, err := s.txInsertID(ctx, tx,
		`INSERT INTO vendor_actions (admin_user_id, vendor_id, action_type, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		act.AdminID, act.TargetID, act.Kind, act.Reason, act.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vendor action: %w", err)
	}
	act.ID = id

	switch act.Kind {
	case model.ActionBlock:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE vendors SET is_verified = FALSE WHERE id = ?"), act.TargetID)
	case model.ActionUnblock:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE vendors SET is_verified = TRUE WHERE id = ?"), act.TargetID)
	case model.ActionRemove:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE users SET is_active = FALSE WHERE id = ?"), userID)
	default:
		return fmt.Errorf("unhandled action kind %q", act.Kind)
	}
	if err != nil {
		return fmt.Errorf("apply vendor %s: %w", act.Kind, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit vendor action: %w", err)
	}
	return nil
}

// RecordCustomerAction is RecordVendorAction's counterpart for customers.
// Customers have no verification flag; block and remove both deactivate the
// owning user account, unblock reactivates it.
func (s *Store) RecordCustomerAction(ctx context.Context, act *model.ModerationAction) error {
	if act.CreatedAt.IsZero() {
		act.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin customer action: %w", err)
	}
	defer tx.Rollback()

	var userID int64
	err = tx.GetContext(ctx, &userID,
		s.rebind("SELECT user_id FROM customers WHERE id = ?"), act.TargetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find customer: %w", err)
	}

	id, err := s.txInsertID(ctx, tx,
		`INSERT INTO customer_actions (admin_user_id, customer_id, action_type, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		act.AdminID, act.TargetID, act.Kind, act.Reason, act.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert customer action: %w", err)
	}
	act.ID = id

	switch act.Kind {
	case model.ActionBlock, model.ActionRemove:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE users SET is_active = FALSE WHERE id = ?"), userID)
	case model.ActionUnblock:
		_, err = tx.ExecContext(ctx,
			s.rebind("UPDATE users SET is_active = TRUE WHERE id = ?"), userID)
	default:
		return fmt.Errorf("unhandled action kind %q", act.Kind)
	}
	if err != nil {
		return fmt.Errorf("apply customer %s: %w", act.Kind, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customer action: %w", err)
	}
	return nil
}

// VendorActionsFor returns every ledger entry for one vendor, oldest first.
func (s *Store) VendorActionsFor(ctx context.Context, vendorID string) ([]model.ModerationAction, error) {
	var acts []model.ModerationAction
	err := s.db.SelectContext(ctx, &acts,
		s.rebind(`SELECT id, admin_user_id, vendor_id AS target_id, action_type, reason, created_at
			FROM vendor_actions WHERE vendor_id = ? ORDER BY created_at ASC, id ASC`),
		vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vendor actions: %w", err)
	}
	return acts, nil
}

// recentActionRow carries the raw join columns for a dashboard action row;
// the display name is assembled in Go because string concatenation syntax is
// not portable across the supported drivers.
type recentActionRow struct {
	ID         int64          `db:"id"`
	TargetID   string         `db:"target_id"`
	Kind       string         `db:"action_type"`
	Reason     string         `db:"reason"`
	AdminEmail sql.NullString `db:"admin_email"`
	NamePart1  sql.NullString `db:"name_part1"`
	NamePart2  sql.NullString `db:"name_part2"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r recentActionRow) toRecord() model.ActionRecord {
	name := strings.TrimSpace(r.NamePart1.String + " " + r.NamePart2.String)
	return model.ActionRecord{
		ID:         r.ID,
		TargetID:   r.TargetID,
		TargetName: name,
		Kind:       model.ActionKind(r.Kind),
		Reason:     r.Reason,
		AdminEmail: r.AdminEmail.String,
		CreatedAt:  r.CreatedAt,
	}
}

// RecentVendorActions returns the newest ledger entries against vendors,
// joined with the acting admin's email and the vendor's business name. The
// joins are LEFT because the actor may have been removed since; the row
// still stands.
func (s *Store) RecentVendorActions(ctx context.Context, limit int) ([]model.ActionRecord, error) {
	const q = `SELECT a.id, a.vendor_id AS target_id, a.action_type, a.reason, a.created_at,
			u.email AS admin_email, v.business_name AS name_part1, NULL AS name_part2
		FROM vendor_actions a
		LEFT JOIN admin_users u ON u.id = a.admin_user_id
		LEFT JOIN vendors v ON v.id = a.vendor_id
		ORDER BY a.created_at DESC, a.id DESC LIMIT ?`

	var rows []recentActionRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), limit); err != nil {
		return nil, fmt.Errorf("recent vendor actions: %w", err)
	}
	records := make([]model.ActionRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toRecord()
	}
	return records, nil
}

// RecentCustomerActions returns the newest ledger entries against customers,
// joined with the acting admin's email and the customer's display name.
func (s *Store) RecentCustomerActions(ctx context.Context, limit int) ([]model.ActionRecord, error) {
	const q = `SELECT a.id, a.customer_id AS target_id, a.action_type, a.reason, a.created_at,
			adm.email AS admin_email, u.first_name AS name_part1, u.last_name AS name_part2
		FROM customer_actions a
		LEFT JOIN admin_users adm ON adm.id = a.admin_user_id
		LEFT JOIN customers c ON c.id = a.customer_id
		LEFT JOIN users u ON u.id = c.user_id
		ORDER BY a.created_at DESC, a.id DESC LIMIT ?`

	var rows []recentActionRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), limit); err != nil {
		return nil, fmt.Errorf("recent customer actions: %w", err)
	}
	records := make([]model.ActionRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toRecord()
	}
	return records, nil
}

// DashboardCounts returns the aggregate counts for the admin dashboard.
// A vendor is active while its verification flag is set; a customer is
// active while its owning account is.
func (s *Store) DashboardCounts(ctx context.Context) (*model.DashboardStats, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM vendors) AS total_vendors,
		(SELECT COUNT(*) FROM vendors WHERE is_verified = TRUE) AS active_vendors,
		(SELECT COUNT(*) FROM customers) AS total_customers,
		(SELECT COUNT(*) FROM customers c JOIN users u ON u.id = c.user_id WHERE u.is_active = TRUE) AS active_customers,
		(SELECT COUNT(*) FROM admin_users WHERE admin_type = 'sub') AS total_sub_admins`

	var stats model.DashboardStats
	if err := s.db.GetContext(ctx, &stats, q); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &stats, nil
}
