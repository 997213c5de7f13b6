package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventsathi/esadmin/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{}) // in-memory sqlite
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedAdmin(t *testing.T, s *Store, email string, typ model.AdminType) *model.AdminUser {
	t.Helper()
	a := &model.AdminUser{
		Email:        email,
		PasswordHash: "x",
		AdminType:    typ,
		IsActive:     true,
	}
	if err := s.CreateAdmin(context.Background(), a); err != nil {
		t.Fatalf("CreateAdmin(%s): %v", email, err)
	}
	return a
}

func seedVendor(t *testing.T, s *Store, id string, verified bool) *model.Vendor {
	t.Helper()
	ctx := context.Background()
	u := &model.User{
		Email:     id + "@vendors.test",
		FirstName: "Vendor",
		LastName:  "Owner",
		UserType:  "vendor",
		IsActive:  true,
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	v := &model.Vendor{
		ID:               id,
		UserID:           u.ID,
		BusinessName:     "Biz " + id,
		VendorName:       "Vendor " + id,
		Email:            u.Email,
		SubscriptionPlan: "free",
		IsVerified:       verified,
	}
	if err := s.CreateVendor(ctx, v); err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	return v
}

func seedCustomer(t *testing.T, s *Store, id string) *model.Customer {
	t.Helper()
	ctx := context.Background()
	u := &model.User{
		Email:     id + "@customers.test",
		FirstName: "Casey",
		LastName:  "Customer",
		UserType:  "customer",
		IsActive:  true,
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	c := &model.Customer{ID: id, UserID: u.ID, City: "Surat", State: "Gujarat"}
	if err := s.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	return c
}

func TestAdminCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := seedAdmin(t, s, "eventsathi1@.com", model.AdminSub)
	if a.ID == 0 {
		t.Fatal("expected non-zero ID after create")
	}

	got, err := s.GetAdminByEmail(ctx, "eventsathi1@.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if got.ID != a.ID || got.AdminType != model.AdminSub {
		t.Errorf("got %+v, want id=%d type=sub", got, a.ID)
	}

	// Duplicate email.
	dup := &model.AdminUser{Email: "eventsathi1@.com", PasswordHash: "y", AdminType: model.AdminSub, IsActive: true}
	if err := s.CreateAdmin(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate email, got %v", err)
	}

	_, err = s.GetAdminByEmail(ctx, "nobody@.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetOrCreateTopAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.GetOrCreateTopAdmin(ctx, "admin@eventsathi.test", "hash")
	if err != nil {
		t.Fatalf("GetOrCreateTopAdmin: %v", err)
	}
	if a.AdminType != model.AdminTop {
		t.Errorf("got type %q, want top", a.AdminType)
	}

	// Second call reuses the same row.
	b, err := s.GetOrCreateTopAdmin(ctx, "admin@eventsathi.test", "hash")
	if err != nil {
		t.Fatalf("second GetOrCreateTopAdmin: %v", err)
	}
	if b.ID != a.ID {
		t.Errorf("second call created a new row: %d != %d", b.ID, a.ID)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := seedAdmin(t, s, "eventsathi2@.com", model.AdminSub)
	sess := &model.AdminSession{
		AdminID:   a.ID,
		Token:     "tok-abc",
		IPAddress: "127.0.0.1",
		UserAgent: "test",
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(8 * time.Hour),
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.ActiveAdminForToken(ctx, "tok-abc", now)
	if err != nil {
		t.Fatalf("ActiveAdminForToken: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("resolved admin %d, want %d", got.ID, a.ID)
	}

	// Unknown token.
	if _, err := s.ActiveAdminForToken(ctx, "tok-unknown", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token: expected ErrNotFound, got %v", err)
	}

	// Expired token fails the same way.
	if _, err := s.ActiveAdminForToken(ctx, "tok-abc", now.Add(9*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired token: expected ErrNotFound, got %v", err)
	}

	// Revoke is idempotent for existing rows.
	if err := s.RevokeSessionByToken(ctx, "tok-abc"); err != nil {
		t.Fatalf("RevokeSessionByToken: %v", err)
	}
	if err := s.RevokeSessionByToken(ctx, "tok-abc"); err != nil {
		t.Errorf("second revoke should succeed, got %v", err)
	}
	if err := s.RevokeSessionByToken(ctx, "tok-unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoking unknown token: expected ErrNotFound, got %v", err)
	}

	// Revoked token resolves identically to an unknown one.
	if _, err := s.ActiveAdminForToken(ctx, "tok-abc", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoked token: expected ErrNotFound, got %v", err)
	}
}

func TestRevokeSessionsForAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := seedAdmin(t, s, "eventsathi3@.com", model.AdminSub)
	for _, tok := range []string{"t1", "t2", "t3"} {
		sess := &model.AdminSession{
			AdminID: a.ID, Token: tok, IsActive: true,
			CreatedAt: now, ExpiresAt: now.Add(8 * time.Hour),
		}
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession(%s): %v", tok, err)
		}
	}
	// One already revoked; only the active ones count.
	if err := s.RevokeSessionByToken(ctx, "t3"); err != nil {
		t.Fatalf("RevokeSessionByToken: %v", err)
	}

	n, err := s.RevokeSessionsForAdmin(ctx, a.ID)
	if err != nil {
		t.Fatalf("RevokeSessionsForAdmin: %v", err)
	}
	if n != 2 {
		t.Errorf("revoked %d sessions, want 2", n)
	}
}

func TestRemoveSubAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := seedAdmin(t, s, "eventsathi4@.com", model.AdminSub)
	sess := &model.AdminSession{
		AdminID: a.ID, Token: "live", IsActive: true,
		CreatedAt: now, ExpiresAt: now.Add(8 * time.Hour),
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.RemoveSubAdmin(ctx, "eventsathi4@.com"); err != nil {
		t.Fatalf("RemoveSubAdmin: %v", err)
	}

	// Account gone, session row retained but unusable.
	if _, err := s.GetAdminByEmail(ctx, "eventsathi4@.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
	row, err := s.GetSessionByToken(ctx, "live")
	if err != nil {
		t.Fatalf("GetSessionByToken after removal: %v", err)
	}
	if row.IsActive {
		t.Error("session still active after owner removal")
	}
	if _, err := s.ActiveAdminForToken(ctx, "live", now); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound resolving removed admin's token, got %v", err)
	}

	// Removing again, or removing a top admin, is NotFound.
	if err := s.RemoveSubAdmin(ctx, "eventsathi4@.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}
	seedAdmin(t, s, "boss@eventsathi.test", model.AdminTop)
	if err := s.RemoveSubAdmin(ctx, "boss@eventsathi.test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing a top admin, got %v", err)
	}
}

func TestRecordVendorAction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	actor := seedAdmin(t, s, "eventsathi5@.com", model.AdminSub)
	v := seedVendor(t, s, "vend-1", true)

	block := &model.ModerationAction{
		AdminID: actor.ID, TargetID: v.ID, Kind: model.ActionBlock, Reason: "spam listings",
	}
	if err := s.RecordVendorAction(ctx, block); err != nil {
		t.Fatalf("RecordVendorAction(block): %v", err)
	}
	got, err := s.GetVendor(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVendor: %v", err)
	}
	if got.IsVerified {
		t.Error("vendor still verified after block")
	}

	unblock := &model.ModerationAction{
		AdminID: actor.ID, TargetID: v.ID, Kind: model.ActionUnblock, Reason: "appeal accepted",
	}
	if err := s.RecordVendorAction(ctx, unblock); err != nil {
		t.Fatalf("RecordVendorAction(unblock): %v", err)
	}
	got, _ = s.GetVendor(ctx, v.ID)
	if !got.IsVerified {
		t.Error("vendor not verified after unblock")
	}

	// Exactly two ledger entries, in creation order.
	acts, err := s.VendorActionsFor(ctx, v.ID)
	if err != nil {
		t.Fatalf("VendorActionsFor: %v", err)
	}
	if len(acts) != 2 {
		t.Fatalf("got %d ledger entries, want 2", len(acts))
	}
	if acts[0].Kind != model.ActionBlock || acts[1].Kind != model.ActionUnblock {
		t.Errorf("ledger order wrong: %q then %q", acts[0].Kind, acts[1].Kind)
	}

	// Remove deactivates the owning user but leaves verification alone.
	remove := &model.ModerationAction{
		AdminID: actor.ID, TargetID: v.ID, Kind: model.ActionRemove, Reason: "fraud",
	}
	if err := s.RecordVendorAction(ctx, remove); err != nil {
		t.Fatalf("RecordVendorAction(remove): %v", err)
	}
	got, _ = s.GetVendor(ctx, v.ID)
	if !got.IsVerified {
		t.Error("remove must not touch the verification flag")
	}
	owner, err := s.GetUser(ctx, v.UserID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if owner.IsActive {
		t.Error("owning user still active after remove")
	}

	// Unknown target writes nothing.
	bad := &model.ModerationAction{AdminID: actor.ID, TargetID: "ghost", Kind: model.ActionBlock}
	if err := s.RecordVendorAction(ctx, bad); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown vendor, got %v", err)
	}
}

func TestRecordCustomerAction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	actor := seedAdmin(t, s, "eventsathi6@.com", model.AdminSub)
	c := seedCustomer(t, s, "cust-1")

	block := &model.ModerationAction{AdminID: actor.ID, TargetID: c.ID, Kind: model.ActionBlock, Reason: "abuse"}
	if err := s.RecordCustomerAction(ctx, block); err != nil {
		t.Fatalf("RecordCustomerAction(block): %v", err)
	}
	owner, _ := s.GetUser(ctx, c.UserID)
	if owner.IsActive {
		t.Error("owner still active after block")
	}

	unblock := &model.ModerationAction{AdminID: actor.ID, TargetID: c.ID, Kind: model.ActionUnblock, Reason: "resolved"}
	if err := s.RecordCustomerAction(ctx, unblock); err != nil {
		t.Fatalf("RecordCustomerAction(unblock): %v", err)
	}
	owner, _ = s.GetUser(ctx, c.UserID)
	if !owner.IsActive {
		t.Error("owner not reactivated after unblock")
	}
}

func TestRecentActionsAndCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	actor := seedAdmin(t, s, "eventsathi7@.com", model.AdminSub)
	v := seedVendor(t, s, "vend-r", false)
	c := seedCustomer(t, s, "cust-r")

	base := time.Now().UTC().Add(-time.Hour)
	for i, kind := range []model.ActionKind{model.ActionBlock, model.ActionUnblock, model.ActionBlock} {
		act := &model.ModerationAction{
			AdminID: actor.ID, TargetID: v.ID, Kind: kind,
			Reason:    "round " + string(rune('1'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.RecordVendorAction(ctx, act); err != nil {
			t.Fatalf("RecordVendorAction: %v", err)
		}
	}

	recent, err := s.RecentVendorActions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentVendorActions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d recent actions, want 2", len(recent))
	}
	if recent[0].Kind != model.ActionBlock || recent[1].Kind != model.ActionUnblock {
		t.Errorf("recent actions not newest-first: %q, %q", recent[0].Kind, recent[1].Kind)
	}
	if recent[0].AdminEmail != actor.Email {
		t.Errorf("admin_email = %q, want %q", recent[0].AdminEmail, actor.Email)
	}
	if recent[0].TargetName != v.BusinessName {
		t.Errorf("target_name = %q, want %q", recent[0].TargetName, v.BusinessName)
	}

	custAct := &model.ModerationAction{AdminID: actor.ID, TargetID: c.ID, Kind: model.ActionBlock, Reason: "r"}
	if err := s.RecordCustomerAction(ctx, custAct); err != nil {
		t.Fatalf("RecordCustomerAction: %v", err)
	}
	custRecent, err := s.RecentCustomerActions(ctx, 10)
	if err != nil {
		t.Fatalf("RecentCustomerActions: %v", err)
	}
	if len(custRecent) != 1 || custRecent[0].TargetName != "Casey Customer" {
		t.Errorf("customer recent = %+v", custRecent)
	}

	stats, err := s.DashboardCounts(ctx)
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	// The vendor's last action was a block, so it is unverified; the
	// customer owner is blocked.
	if stats.TotalVendors != 1 || stats.ActiveVendors != 0 {
		t.Errorf("vendor counts = %d/%d, want 0/1", stats.ActiveVendors, stats.TotalVendors)
	}
	if stats.TotalCustomers != 1 || stats.ActiveCustomers != 0 {
		t.Errorf("customer counts = %d/%d, want 0/1", stats.ActiveCustomers, stats.TotalCustomers)
	}
	if stats.TotalSubAdmins != 1 {
		t.Errorf("sub-admin count = %d, want 1", stats.TotalSubAdmins)
	}
}

func TestDashboardActiveVendorsTracksVerification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	actor := seedAdmin(t, s, "eventsathi9@.com", model.AdminSub)
	v := seedVendor(t, s, "vend-v", true)

	stats, err := s.DashboardCounts(ctx)
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	if stats.ActiveVendors != 1 {
		t.Fatalf("active_vendors = %d before block, want 1", stats.ActiveVendors)
	}

	act := &model.ModerationAction{AdminID: actor.ID, TargetID: v.ID, Kind: model.ActionBlock, Reason: "spam"}
	if err := s.RecordVendorAction(ctx, act); err != nil {
		t.Fatalf("RecordVendorAction: %v", err)
	}

	// Blocking clears the verification flag, which is what the active
	// vendor count follows. The owning account stays active.
	stats, err = s.DashboardCounts(ctx)
	if err != nil {
		t.Fatalf("DashboardCounts: %v", err)
	}
	if stats.ActiveVendors != 0 {
		t.Errorf("active_vendors = %d after block, want 0", stats.ActiveVendors)
	}
	owner, err := s.GetUser(ctx, v.UserID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !owner.IsActive {
		t.Error("vendor owner deactivated by block")
	}
}

func TestVendorAndCustomerListings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	actor := seedAdmin(t, s, "eventsathi8@.com", model.AdminSub)
	v1 := seedVendor(t, s, "vend-a", true)
	v2 := seedVendor(t, s, "vend-b", true)
	c1 := seedCustomer(t, s, "cust-a")

	// Bookings: two for v1 (one from c1), one for v2.
	for _, b := range []*model.Booking{
		{CustomerID: c1.ID, VendorID: v1.ID, TotalAmount: 1500, Status: "completed"},
		{CustomerID: "other", VendorID: v1.ID, TotalAmount: 500, Status: "completed"},
		{CustomerID: c1.ID, VendorID: v2.ID, TotalAmount: 200, Status: "pending"},
	} {
		if err := s.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}
	block := &model.ModerationAction{AdminID: actor.ID, TargetID: v1.ID, Kind: model.ActionBlock, Reason: "r"}
	if err := s.RecordVendorAction(ctx, block); err != nil {
		t.Fatalf("RecordVendorAction: %v", err)
	}

	vendors, err := s.ListVendorOverviews(ctx, VendorFilter{})
	if err != nil {
		t.Fatalf("ListVendorOverviews: %v", err)
	}
	if len(vendors) != 2 {
		t.Fatalf("got %d vendors, want 2", len(vendors))
	}
	byID := map[string]model.VendorOverview{}
	for _, v := range vendors {
		byID[v.ID] = v
	}
	if got := byID[v1.ID]; got.TotalBookings != 2 || got.TotalRevenue != 2000 || !got.IsBlocked {
		t.Errorf("v1 overview = bookings %d revenue %.0f blocked %v", got.TotalBookings, got.TotalRevenue, got.IsBlocked)
	}
	if got := byID[v2.ID]; got.TotalBookings != 1 || got.TotalRevenue != 200 || got.IsBlocked {
		t.Errorf("v2 overview = bookings %d revenue %.0f blocked %v", got.TotalBookings, got.TotalRevenue, got.IsBlocked)
	}

	// Search narrows by business name.
	found, err := s.ListVendorOverviews(ctx, VendorFilter{Search: "biz vend-a"})
	if err != nil {
		t.Fatalf("ListVendorOverviews(search): %v", err)
	}
	if len(found) != 1 || found[0].ID != v1.ID {
		t.Errorf("search returned %d rows", len(found))
	}

	customers, err := s.ListCustomerOverviews(ctx, "")
	if err != nil {
		t.Fatalf("ListCustomerOverviews: %v", err)
	}
	if len(customers) != 1 {
		t.Fatalf("got %d customers, want 1", len(customers))
	}
	if got := customers[0]; got.TotalBookings != 2 || got.TotalSpent != 1700 || got.IsBlocked {
		t.Errorf("customer overview = bookings %d spent %.0f blocked %v", got.TotalBookings, got.TotalSpent, got.IsBlocked)
	}

	none, err := s.ListCustomerOverviews(ctx, "zzz")
	if err != nil {
		t.Fatalf("ListCustomerOverviews(search): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("search for zzz returned %d rows", len(none))
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSetting(ctx, "instance_id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}
	if err := s.SetSetting(ctx, "instance_id", "abc"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting(ctx, "instance_id", "def"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	v, err := s.GetSetting(ctx, "instance_id")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "def" {
		t.Errorf("got %q, want %q", v, "def")
	}
}
