package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventsathi/esadmin/internal/model"
	"github.com/eventsathi/esadmin/internal/store"
)

var (
	// ErrInvalidCredentials covers every login failure: unknown email, wrong
	// password, deactivated account. Callers get no finer detail.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession covers every token-resolution failure: unknown,
	// expired, and revoked tokens fail identically so a probing client
	// learns nothing about why.
	ErrInvalidSession = errors.New("invalid session")
	// ErrForbidden means the session is valid but the account lacks the
	// authority for the operation.
	ErrForbidden = errors.New("forbidden")
)

// DefaultSessionTTL is how long a session stays usable after login.
const DefaultSessionTTL = 8 * time.Hour

// BootstrapCredential is the configured email/password pair that grants top
// authority. It is the only path to a `top` account; the sub-admin registry
// can never mint one.
type BootstrapCredential struct {
	Email    string
	Password string
}

// SessionService issues, resolves, and revokes admin sessions.
type SessionService struct {
	store      *store.Store
	bootstrap  BootstrapCredential
	sessionTTL time.Duration
}

// NewSessionService creates a SessionService. A zero ttl means
// DefaultSessionTTL.
func NewSessionService(st *store.Store, bootstrap BootstrapCredential, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: st, bootstrap: bootstrap, sessionTTL: ttl}
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	Admin     *model.AdminUser
	ExpiresAt time.Time
}

// Login authenticates an admin and opens a session. The bootstrap credential
// is checked first; matching it gets (and on first login creates) the single
// top account. Anything else is checked against an active subordinate's
// bcrypt hash. All failures collapse into ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password, ip, userAgent string) (*LoginResult, error) {
	admin, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sess := &model.AdminSession{
		AdminID:   admin.ID,
		Token:     token,
		IPAddress: ip,
		UserAgent: userAgent,
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := s.store.TouchAdminLogin(ctx, admin.ID, now); err != nil {
		return nil, fmt.Errorf("record login time: %w", err)
	}

	return &LoginResult{Token: token, Admin: admin, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *SessionService) authenticate(ctx context.Context, email, password string) (*model.AdminUser, error) {
	if s.isBootstrap(email, password) {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrap.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash bootstrap password: %w", err)
		}
		admin, err := s.store.GetOrCreateTopAdmin(ctx, s.bootstrap.Email, string(hash))
		if err != nil {
			return nil, fmt.Errorf("bootstrap top admin: %w", err)
		}
		return admin, nil
	}

	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up admin: %w", err)
	}
	if !admin.IsActive || admin.AdminType != model.AdminSub {
		// Top admins only log in through the bootstrap credential.
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *SessionService) isBootstrap(email, password string) bool {
	if s.bootstrap.Email == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.bootstrap.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.bootstrap.Password)) == 1
	return emailOK && passOK
}

// Resolve maps a session token to its owning admin. Unknown, expired, and
// revoked tokens all return ErrInvalidSession.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.AdminUser, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	admin, err := s.store.ActiveAdminForToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return admin, nil
}

// Revoke deactivates the session behind a token. Revoking an already-revoked
// session succeeds; a token with no session at all returns
// store.ErrNotFound.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.store.RevokeSessionByToken(ctx, token)
}

// RevokeAll deactivates every session owned by an admin and reports how many
// were still live.
func (s *SessionService) RevokeAll(ctx context.Context, adminID int64) (int64, error) {
	return s.store.RevokeSessionsForAdmin(ctx, adminID)
}

// newSessionToken returns 32 bytes of randomness as unpadded base64url.
// Uniqueness rests on the entropy, backed by the store's unique constraint.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
