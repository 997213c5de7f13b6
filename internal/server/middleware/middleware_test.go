package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/service"
	"github.com/eventsathi/esadmin/internal/store"
)

// ---------------------------------------------------------------------------
// RequestID middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDGeneratesUUID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("expected non-empty request ID in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	respID := rr.Header().Get("X-Request-ID")
	if len(respID) != 36 {
		t.Errorf("expected UUID-length request ID, got %q (len=%d)", respID, len(respID))
	}
}

func TestRequestIDPreservesClientID(t *testing.T) {
	clientID := "trace-abc-123"

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := GetRequestID(r.Context()); id != clientID {
			t.Errorf("expected context ID %q, got %q", clientID, id)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", clientID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != clientID {
		t.Errorf("expected response X-Request-ID %q, got %q", clientID, got)
	}
}

// ---------------------------------------------------------------------------
// Authenticate / RequireTop middleware tests
// ---------------------------------------------------------------------------

func newTestSessions(t *testing.T) *service.SessionService {
	t.Helper()
	st, err := store.Open(store.Config{})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return service.NewSessionService(st, service.BootstrapCredential{
		Email:    "admin@eventsathi.test",
		Password: "Sup3r!Secret",
	}, 0)
}

func TestAuthenticate(t *testing.T) {
	sessions := newTestSessions(t)
	res, err := sessions.Login(context.Background(), "admin@eventsathi.test", "Sup3r!Secret", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	handler := Authenticate(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin := CurrentAdmin(r.Context())
		if admin == nil || !admin.IsTop() {
			t.Error("expected top admin in context")
		}
		if CurrentToken(r.Context()) != res.Token {
			t.Error("expected raw token in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "AdminToken " + res.Token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Bearer " + res.Token, http.StatusUnauthorized},
		{"scheme only", "AdminToken", http.StatusUnauthorized},
		{"unknown token", "AdminToken nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/admin/vendors", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Errorf("status = %d, want %d", rr.Code, tc.status)
			}
		})
	}
}

func TestRequireTop(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireTop()(inner)

	req := httptest.NewRequest("POST", "/api/v1/admin/sub-admins", nil)
	ctx := context.WithValue(req.Context(), AdminKey, &model.AdminUser{ID: 1, AdminType: model.AdminTop})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusOK {
		t.Errorf("top admin: status = %d, want 200", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/v1/admin/sub-admins", nil)
	ctx = context.WithValue(req.Context(), AdminKey, &model.AdminUser{ID: 2, AdminType: model.AdminSub})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusForbidden {
		t.Errorf("sub admin: status = %d, want 403", rr.Code)
	}

	// No admin in context at all.
	req = httptest.NewRequest("POST", "/api/v1/admin/sub-admins", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("unauthenticated: status = %d, want 403", rr.Code)
	}
}
