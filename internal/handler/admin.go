package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/server/middleware"
	"github.com/eventsathi/esadmin/internal/service"
	"github.com/eventsathi/esadmin/internal/store"
)

// AdminHandler serves the session and sub-admin management endpoints.
type AdminHandler struct {
	sessions *service.SessionService
	registry *service.RegistryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sessions *service.SessionService, registry *service.RegistryService) *AdminHandler {
	return &AdminHandler{sessions: sessions, registry: registry}
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	AdminType model.AdminType `json:"admin_type"`
	Email     string          `json:"email"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Login authenticates an admin and opens a session.
// POST /api/v1/admin/session
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ip := r.RemoteAddr
	res, err := h.sessions.Login(r.Context(), req.Email, req.Password, ip, r.UserAgent())
	if err != nil {
		writeServiceError(w, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		AdminType: res.Admin.AdminType,
		Email:     res.Admin.Email,
		ExpiresAt: res.ExpiresAt,
	})
}

// Logout deactivates the session the request authenticated with. A token
// with no session row at all is a 400; revoking an already-revoked session
// succeeds.
// DELETE /api/v1/admin/session
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.CurrentToken(r.Context())
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Unknown session token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ---------------------------------------------------------------------------
// Sub-admin management (top authority only)
// ---------------------------------------------------------------------------

type createSubAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type removeSubAdminRequest struct {
	Email string `json:"email"`
}

// ListSubAdmins returns every subordinate account.
// GET /api/v1/admin/sub-admins
func (h *AdminHandler) ListSubAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.registry.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sub-admins")
		return
	}

	resources := make([]map[string]interface{}, 0, len(admins))
	for i := range admins {
		resources = append(resources, subAdminToMap(&admins[i]))
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: resources,
		Meta:     &model.ResponseMeta{Count: len(resources)},
	})
}

// CreateSubAdmin registers a new subordinate account.
// POST /api/v1/admin/sub-admins
func (h *AdminHandler) CreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentAdmin(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createSubAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := h.registry.Create(r.Context(), req.Email, req.Password, actor)
	if err != nil {
		writeServiceError(w, err, "Failed to create sub-admin")
		return
	}
	writeJSON(w, http.StatusCreated, subAdminToMap(admin))
}

// RemoveSubAdmin deletes a subordinate account by email, killing its live
// sessions in the same stroke.
// DELETE /api/v1/admin/sub-admins
func (h *AdminHandler) RemoveSubAdmin(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentAdmin(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req removeSubAdminRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.registry.Remove(r.Context(), req.Email, actor); err != nil {
		writeServiceError(w, err, "Failed to remove sub-admin")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sub-admin removed successfully",
	})
}

func subAdminToMap(a *model.AdminUser) map[string]interface{} {
	m := map[string]interface{}{
		"id":         a.ID,
		"email":      a.Email,
		"admin_type": a.AdminType,
		"is_active":  a.IsActive,
		"created_at": a.CreatedAt,
	}
	if a.CreatedBy != nil {
		m["created_by"] = *a.CreatedBy
	}
	if a.LastLoginAt != nil {
		m["last_login_at"] = *a.LastLoginAt
	}
	return m
}
