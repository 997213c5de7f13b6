package model

import (
	"fmt"
	"time"
)

// ActionKind is a moderation action taken against a vendor or customer.
// The set is closed; anything else is rejected before it reaches the ledger.
type ActionKind string

const (
	ActionBlock   ActionKind = "block"
	ActionUnblock ActionKind = "unblock"
	ActionRemove  ActionKind = "remove"
)

// ParseActionKind validates a wire-level action_type string.
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionBlock, ActionUnblock, ActionRemove:
		return ActionKind(s), nil
	default:
		return "", fmt.Errorf("invalid action_type: %q", s)
	}
}

// TargetKind identifies which external entity a moderation action applies to.
type TargetKind string

const (
	TargetVendor   TargetKind = "vendor"
	TargetCustomer TargetKind = "customer"
)

// ModerationAction is one append-only audit row in the moderation ledger.
// Exactly one row is written per action performed, regardless of whether the
// underlying state change is a no-op. Rows are never updated or deleted.
type ModerationAction struct {
	ID        int64      `json:"id" db:"id"`
	AdminID   int64      `json:"admin_id" db:"admin_user_id"`
	TargetID  string     `json:"target_id" db:"target_id"`
	Kind      ActionKind `json:"action_type" db:"action_type"`
	Reason    string     `json:"reason" db:"reason"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// ActionRecord is a ledger row joined with its actor and target display
// fields, as shown on the dashboard.
type ActionRecord struct {
	ID         int64      `json:"id" db:"id"`
	TargetID   string     `json:"target_id" db:"target_id"`
	TargetName string     `json:"target_name" db:"target_name"`
	Kind       ActionKind `json:"action_type" db:"action_type"`
	Reason     string     `json:"reason" db:"reason"`
	AdminEmail string     `json:"admin_email" db:"admin_email"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// DashboardStats are the aggregate counts shown on the admin dashboard.
// All counts are delegated to the vendor/customer/admin tables; the ledger
// keeps no state of its own for them.
type DashboardStats struct {
	TotalVendors    int64 `json:"total_vendors" db:"total_vendors"`
	ActiveVendors   int64 `json:"active_vendors" db:"active_vendors"`
	TotalCustomers  int64 `json:"total_customers" db:"total_customers"`
	ActiveCustomers int64 `json:"active_customers" db:"active_customers"`
	TotalSubAdmins  int64 `json:"total_sub_admins" db:"total_sub_admins"`
}
