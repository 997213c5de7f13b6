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

// CreateUser inserts an end-user account record. Used by the seed command
// and the tests; in production these rows arrive from the platform's own
// registration flow.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	id, err := s.insertID(ctx,
		`INSERT INTO users (email, first_name, last_name, phone, user_type, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.FirstName, u.LastName, u.Phone, u.UserType, u.IsActive, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

// GetUser returns an end-user account by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, s.rebind("SELECT * FROM users WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CreateVendor inserts a vendor profile.
func (s *Store) CreateVendor(ctx context.Context, v *model.Vendor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO vendors
		(id, user_id, business_name, vendor_name, email, phone, categories, rating,
		 total_reviews, subscription_plan, is_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		v.ID, v.UserID, v.BusinessName, v.VendorName, v.Email, v.Phone, v.Categories,
		v.Rating, v.TotalReviews, v.SubscriptionPlan, v.IsVerified, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetVendor returns a vendor profile by ID.
func (s *Store) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	var v model.Vendor
	err := s.db.GetContext(ctx, &v, s.rebind("SELECT * FROM vendors WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// CreateCustomer inserts a customer profile.
func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO customers (id, user_id, city, state, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		c.ID, c.UserID, c.City, c.State, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetCustomer returns a customer profile by ID.
func (s *Store) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := s.db.GetContext(ctx, &c, s.rebind("SELECT * FROM customers WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// CreateBooking inserts a booking record.
func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	id, err := s.insertID(ctx,
		`INSERT INTO bookings (customer_id, vendor_id, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.CustomerID, b.VendorID, b.TotalAmount, b.Status, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return nil
}

// VendorFilter narrows the vendor listing.
type VendorFilter struct {
	// Search matches case-insensitively against business name, vendor name,
	// and email.
	Search string
	// SubscriptionPlan, when set, restricts to vendors on that plan.
	SubscriptionPlan string
}

// ListVendorOverviews returns the vendor directory with booking aggregates
// and the moderation-derived is_blocked flag, newest first. A vendor counts
// as blocked once any block action has been recorded against it, matching
// how the dashboard has always presented the flag.
func (s *Store) ListVendorOverviews(ctx context.Context, f VendorFilter) ([]model.VendorOverview, error) {
	q := `SELECT v.*, u.is_active AS is_active,
		(SELECT COUNT(*) FROM bookings b WHERE b.vendor_id = v.id) AS total_bookings,
		(SELECT COALESCE(SUM(b.total_amount), 0) FROM bookings b WHERE b.vendor_id = v.id) AS total_revenue,
		EXISTS(SELECT 1 FROM vendor_actions a WHERE a.vendor_id = v.id AND a.action_type = 'block') AS is_blocked
		FROM vendors v JOIN users u ON u.id = v.user_id`

	var where []string
	var args []interface{}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		where = append(where,
			"(LOWER(v.business_name) LIKE ? OR LOWER(v.vendor_name) LIKE ? OR LOWER(v.email) LIKE ?)")
		args = append(args, term, term, term)
	}
	if f.SubscriptionPlan != "" {
		where = append(where, "v.subscription_plan = ?")
		args = append(args, f.SubscriptionPlan)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY v.created_at DESC, v.id DESC"

	var rows []model.VendorOverview
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return rows, nil
}

// ListCustomerOverviews returns the customer directory with booking
// aggregates and the moderation-derived is_blocked flag, newest first.
// Search matches case-insensitively against first name, last name, and
// email.
func (s *Store) ListCustomerOverviews(ctx context.Context, search string) ([]model.CustomerOverview, error) {
	q := `SELECT c.*, u.email AS email, u.first_name AS first_name, u.last_name AS last_name,
		u.phone AS phone, u.is_active AS is_active,
		(SELECT COUNT(*) FROM bookings b WHERE b.customer_id = c.id) AS total_bookings,
		(SELECT COALESCE(SUM(b.total_amount), 0) FROM bookings b WHERE b.customer_id = c.id) AS total_spent,
		EXISTS(SELECT 1 FROM customer_actions a WHERE a.customer_id = c.id AND a.action_type = 'block') AS is_blocked
		FROM customers c JOIN users u ON u.id = c.user_id`

	var args []interface{}
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q += ` WHERE (LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)`
		args = append(args, term, term, term)
	}
	q += " ORDER BY c.created_at DESC, c.id DESC"

	var rows []model.CustomerOverview
	if err := s.db.SelectContext(ctx, &rows, s.rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return rows, nil
}
