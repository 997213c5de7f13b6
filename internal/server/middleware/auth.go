package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/service"
)

type contextKeyAuth string

// AdminKey is the context key for the authenticated admin account.
const AdminKey contextKeyAuth = "admin_user"

// TokenKey is the context key for the raw session token, kept around so the
// logout handler can revoke the session it was called with.
const TokenKey contextKeyAuth = "admin_token"

// AuthScheme is the Authorization header scheme for admin sessions. It is
// deliberately not "Bearer": end-user JWTs ride the same transport, and an
// end-user token presented here must fail without ever being parsed.
const AuthScheme = "AdminToken"

// Authenticate validates the `Authorization: AdminToken <token>` header and
// attaches the resolved admin account to the request context. A missing or
// malformed header, or any token the session service cannot resolve, gets a
// bare 401 with no indication of which case it was.
func Authenticate(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			admin, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), AdminKey, admin)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTop rejects requests whose authenticated admin lacks top authority.
// It must run after Authenticate. Handlers for sensitive operations still
// re-check authority themselves; this gate just fails fast.
func RequireTop() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := CurrentAdmin(r.Context())
			if admin == nil || !admin.IsTop() {
				writeAuthError(w, http.StatusForbidden, "Top admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentAdmin extracts the authenticated admin from the context, or nil for
// an unauthenticated request.
func CurrentAdmin(ctx context.Context) *model.AdminUser {
	if a, ok := ctx.Value(AdminKey).(*model.AdminUser); ok {
		return a
	}
	return nil
}

// CurrentToken extracts the raw session token from the context, or "".
func CurrentToken(ctx context.Context) string {
	if t, ok := ctx.Value(TokenKey).(string); ok {
		return t
	}
	return ""
}

func extractToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != AuthScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Hand-built JSON to avoid an import cycle with the handler package.
	w.Write([]byte(`{"error":{"code":` + strconv.Itoa(status) + `,"message":"` + message + `"}}`))
}
