package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/store"
)

// ModerationService records block/unblock/remove actions against vendors and
// customers and applies their effects. Every action lands in the append-only
// ledger; nothing here updates or deletes past entries.
type ModerationService struct {
	store *store.Store
}

// NewModerationService creates a ModerationService.
func NewModerationService(st *store.Store) *ModerationService {
	return &ModerationService{store: st}
}

// ActionResult reports a completed moderation action.
type ActionResult struct {
	Action  *model.ModerationAction
	Message string
}

// RecordAndApply validates and executes one moderation action. actionType is
// the raw wire value; a value outside the closed enum is a *ValidationError.
// An unresolvable target returns store.ErrNotFound.
func (m *ModerationService) RecordAndApply(ctx context.Context, actor *model.AdminUser, target model.TargetKind, targetID, actionType, reason string) (*ActionResult, error) {
	kind, err := model.ParseActionKind(actionType)
	if err != nil {
		return nil, &ValidationError{Field: "action_type", Reason: "Invalid action type"}
	}

	act := &model.ModerationAction{
		AdminID:  actor.ID,
		TargetID: targetID,
		Kind:     kind,
		Reason:   reason,
	}

	switch target {
	case model.TargetVendor:
		err = m.store.RecordVendorAction(ctx, act)
	case model.TargetCustomer:
		err = m.store.RecordCustomerAction(ctx, act)
	default:
		return nil, fmt.Errorf("unhandled target kind %q", target)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("record %s action: %w", target, err)
	}

	return &ActionResult{Action: act, Message: actionMessage(target, kind)}, nil
}

func actionMessage(target model.TargetKind, kind model.ActionKind) string {
	var noun string
	switch target {
	case model.TargetVendor:
		noun = "Vendor"
	case model.TargetCustomer:
		noun = "Customer"
	}
	switch kind {
	case model.ActionBlock:
		return noun + " blocked successfully"
	case model.ActionUnblock:
		return noun + " unblocked successfully"
	default:
		return noun + " removed successfully"
	}
}

// RecentActions returns the newest ledger entries for one target kind,
// joined with actor and target display fields.
func (m *ModerationService) RecentActions(ctx context.Context, target model.TargetKind, limit int) ([]model.ActionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	switch target {
	case model.TargetVendor:
		return m.store.RecentVendorActions(ctx, limit)
	case model.TargetCustomer:
		return m.store.RecentCustomerActions(ctx, limit)
	default:
		return nil, fmt.Errorf("unhandled target kind %q", target)
	}
}

// DashboardStats returns the aggregate counts for the dashboard.
func (m *ModerationService) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return m.store.DashboardCounts(ctx)
}

// ListVendors returns the annotated vendor directory.
func (m *ModerationService) ListVendors(ctx context.Context, filter store.VendorFilter) ([]model.VendorOverview, error) {
	return m.store.ListVendorOverviews(ctx, filter)
}

// ListCustomers returns the annotated customer directory.
func (m *ModerationService) ListCustomers(ctx context.Context, search string) ([]model.CustomerOverview, error) {
	return m.store.ListCustomerOverviews(ctx, search)
}
