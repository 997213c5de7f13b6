package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/store"
)

// ValidationError is a rejected input with a human-readable reason, surfaced
// to the client as a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RegistryService manages subordinate admin accounts. Only the top admin may
// create or remove them; the authority check lives here, not just in the
// transport layer.
type RegistryService struct {
	store *store.Store
}

// NewRegistryService creates a RegistryService.
func NewRegistryService(st *store.Store) *RegistryService {
	return &RegistryService{store: st}
}

// Create validates and registers a new subordinate account on behalf of
// creator. Returns a *ValidationError for format failures, ErrForbidden if
// the creator lacks top authority, and store.ErrConflict for a duplicate
// email.
func (r *RegistryService) Create(ctx context.Context, email, password string, creator *model.AdminUser) (*model.AdminUser, error) {
	if !creator.IsTop() {
		return nil, ErrForbidden
	}
	if !model.ValidateSubAdminEmail(email) {
		return nil, &ValidationError{Field: "email", Reason: "Email must be in format eventsathi{number}@.com"}
	}
	if ok, reason := model.ValidateSubAdminPassword(password); !ok {
		return nil, &ValidationError{Field: "password", Reason: reason}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	creatorID := creator.ID
	admin := &model.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		AdminType:    model.AdminSub,
		IsActive:     true,
		CreatedBy:    &creatorID,
	}
	if err := r.store.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Remove deletes the subordinate with the given email, invalidating its
// sessions first so no in-flight request keeps operating against a deleted
// account. Returns ErrForbidden unless requester holds top authority and
// store.ErrNotFound if no such subordinate exists. Creator references on
// accounts the removed admin created are left pointing at the old ID as a
// historical record.
func (r *RegistryService) Remove(ctx context.Context, email string, requester *model.AdminUser) error {
	if !requester.IsTop() {
		return ErrForbidden
	}
	err := r.store.RemoveSubAdmin(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("remove sub-admin: %w", err)
	}
	return err
}

// List returns every subordinate account, newest first.
func (r *RegistryService) List(ctx context.Context) ([]model.AdminUser, error) {
	return r.store.ListSubAdmins(ctx)
}
