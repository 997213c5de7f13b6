package model

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// AdminType distinguishes the single bootstrap administrator from the
// subordinate accounts it creates.
type AdminType string

const (
	// AdminTop is the bootstrap administrator. There is exactly one, and top
	// authority can only be obtained through the configured bootstrap
	// credential, never through sub-admin creation.
	AdminTop AdminType = "top"
	// AdminSub is a subordinate administrator created by the top admin.
	AdminSub AdminType = "sub"
)

// AdminUser is an administrative account for the EventSathi console.
// Passwords are stored as bcrypt hashes.
type AdminUser struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	AdminType    AdminType  `json:"admin_type" db:"admin_type"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedBy    *int64     `json:"created_by,omitempty" db:"created_by"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// IsTop reports whether the account holds top authority.
func (a *AdminUser) IsTop() bool {
	return a.AdminType == AdminTop
}

// AdminSession is a login session for an admin account. Sessions are never
// deleted; revocation flips is_active so the row survives for audit.
type AdminSession struct {
	ID        int64     `json:"id" db:"id"`
	AdminID   int64     `json:"admin_id" db:"admin_user_id"`
	Token     string    `json:"-" db:"token"` // opaque bearer credential, never logged
	IPAddress string    `json:"ip_address" db:"ip_address"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Usable reports whether the session can authenticate a request at the given
// instant. Expired sessions are not purged, merely unusable.
func (s *AdminSession) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

// subAdminEmailRe is the documented sub-admin address contract, kept exactly
// as the product shipped it: a literal "eventsathi" prefix, digits, then
// "@.com" with an empty domain label. The empty label is almost certainly a
// defect in the original pattern, but clients were built against it, so it is
// not corrected here.
var subAdminEmailRe = regexp.MustCompile(`^eventsathi\d+@\.com$`)

// ValidateSubAdminEmail reports whether the candidate matches the fixed
// sub-admin address template.
func ValidateSubAdminEmail(email string) bool {
	return subAdminEmailRe.MatchString(email)
}

var (
	passwordLowerRe   = regexp.MustCompile(`[a-z]`)
	passwordUpperRe   = regexp.MustCompile(`[A-Z]`)
	passwordDigitRe   = regexp.MustCompile(`\d`)
	passwordSpecialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateSubAdminPassword checks the sub-admin password policy: 10 to 15
// characters inclusive, with at least one lowercase letter, one uppercase
// letter, one digit, and one special character. Length is checked first; the
// returned reason is a human-readable message suitable for a 400 response.
func ValidateSubAdminPassword(password string) (bool, string) {
	if n := utf8.RuneCountInString(password); n < 10 || n > 15 {
		return false, "Password must be between 10-15 characters"
	}

	if !passwordLowerRe.MatchString(password) ||
		!passwordUpperRe.MatchString(password) ||
		!passwordDigitRe.MatchString(password) ||
		!passwordSpecialRe.MatchString(password) {
		return false, "Password must contain at least one lowercase letter, one uppercase letter, one digit, and one special character"
	}

	return true, "Valid password"
}
