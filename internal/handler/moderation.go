package handler

import (
	"net/http"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/server/middleware"
	"github.com/eventsathi/esadmin/internal/service"
	"github.com/eventsathi/esadmin/internal/store"
)

// ModerationHandler serves the vendor/customer directory listings, the
// moderation action endpoints, and the dashboard.
type ModerationHandler struct {
	moderation *service.ModerationService
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(moderation *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// recentActionLimit is how many ledger entries of each kind the dashboard
// shows.
const recentActionLimit = 10

// ---------------------------------------------------------------------------
// Directory listings
// ---------------------------------------------------------------------------

// ListVendors returns the annotated vendor directory. Supports ?search= and
// ?subscription_plan=.
// GET /api/v1/admin/vendors
func (h *ModerationHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	filter := store.VendorFilter{
		Search:           queryString(r, "search"),
		SubscriptionPlan: queryString(r, "subscription_plan"),
	}
	vendors, err := h.moderation.ListVendors(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vendors")
		return
	}

	resources := make([]map[string]interface{}, 0, len(vendors))
	for i := range vendors {
		resources = append(resources, vendorToMap(&vendors[i]))
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: resources,
		Meta:     &model.ResponseMeta{Count: len(resources)},
	})
}

// ListCustomers returns the annotated customer directory. Supports ?search=.
// GET /api/v1/admin/customers
func (h *ModerationHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.moderation.ListCustomers(r.Context(), queryString(r, "search"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}

	resources := make([]map[string]interface{}, 0, len(customers))
	for i := range customers {
		resources = append(resources, customerToMap(&customers[i]))
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: resources,
		Meta:     &model.ResponseMeta{Count: len(resources)},
	})
}

// ---------------------------------------------------------------------------
// Moderation actions
// ---------------------------------------------------------------------------

type vendorActionRequest struct {
	VendorID   string `json:"vendor_id"`
	ActionType string `json:"action_type"`
	Reason     string `json:"reason"`
}

type customerActionRequest struct {
	CustomerID string `json:"customer_id"`
	ActionType string `json:"action_type"`
	Reason     string `json:"reason"`
}

// VendorAction records and applies a moderation action against a vendor.
// POST /api/v1/admin/vendors/action
func (h *ModerationHandler) VendorAction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentAdmin(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req vendorActionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.VendorID == "" || req.ActionType == "" {
		writeError(w, http.StatusBadRequest, "vendor_id and action_type are required")
		return
	}

	res, err := h.moderation.RecordAndApply(r.Context(), actor, model.TargetVendor, req.VendorID, req.ActionType, req.Reason)
	if err != nil {
		writeServiceError(w, err, "Failed to apply vendor action")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   res.Message,
		"action_id": res.Action.ID,
	})
}

// CustomerAction records and applies a moderation action against a customer.
// POST /api/v1/admin/customers/action
func (h *ModerationHandler) CustomerAction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentAdmin(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req customerActionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.CustomerID == "" || req.ActionType == "" {
		writeError(w, http.StatusBadRequest, "customer_id and action_type are required")
		return
	}

	res, err := h.moderation.RecordAndApply(r.Context(), actor, model.TargetCustomer, req.CustomerID, req.ActionType, req.Reason)
	if err != nil {
		writeServiceError(w, err, "Failed to apply customer action")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   res.Message,
		"action_id": res.Action.ID,
	})
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// DashboardStats returns aggregate counts plus the most recent vendor and
// customer actions.
// GET /api/v1/admin/dashboard-stats
func (h *ModerationHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderation.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
		return
	}
	vendorActions, err := h.moderation.RecentActions(r.Context(), model.TargetVendor, recentActionLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load recent vendor actions")
		return
	}
	customerActions, err := h.moderation.RecentActions(r.Context(), model.TargetCustomer, recentActionLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load recent customer actions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":                   stats,
		"recent_vendor_actions":   actionRecordsToMaps(vendorActions),
		"recent_customer_actions": actionRecordsToMaps(customerActions),
	})
}

func actionRecordsToMaps(records []model.ActionRecord) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		out[i] = map[string]interface{}{
			"id":          rec.ID,
			"target_id":   rec.TargetID,
			"target_name": rec.TargetName,
			"action_type": rec.Kind,
			"reason":      rec.Reason,
			"admin_email": rec.AdminEmail,
			"created_at":  rec.CreatedAt,
		}
	}
	return out
}

func vendorToMap(v *model.VendorOverview) map[string]interface{} {
	return map[string]interface{}{
		"id":                v.ID,
		"business_name":     v.BusinessName,
		"vendor_name":       v.VendorName,
		"email":             v.Email,
		"phone":             v.Phone,
		"categories":        v.Categories,
		"rating":            v.Rating,
		"total_reviews":     v.TotalReviews,
		"subscription_plan": v.SubscriptionPlan,
		"is_verified":       v.IsVerified,
		"is_active":         v.IsActive,
		"is_blocked":        v.IsBlocked,
		"total_bookings":    v.TotalBookings,
		"total_revenue":     v.TotalRevenue,
		"created_at":        v.CreatedAt,
	}
}

func customerToMap(c *model.CustomerOverview) map[string]interface{} {
	return map[string]interface{}{
		"id":             c.ID,
		"first_name":     c.FirstName,
		"last_name":      c.LastName,
		"email":          c.Email,
		"phone":          c.Phone,
		"city":           c.City,
		"state":          c.State,
		"is_active":      c.IsActive,
		"is_blocked":     c.IsBlocked,
		"total_bookings": c.TotalBookings,
		"total_spent":    c.TotalSpent,
		"created_at":     c.CreatedAt,
	}
}
