package model

import (
	"testing"
	"time"
)

func TestValidateSubAdminEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"eventsathi2@.com", true},
		{"eventsathi123@.com", true},
		{"eventsathi@.com", false},        // no digits
		{"eventsathi2@eventsathi.com", false}, // real domain label is rejected
		{"eventsathi2@.org", false},
		{"xeventsathi2@.com", false},
		{"eventsathi2@.comx", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidateSubAdminEmail(tc.email); got != tc.want {
			t.Errorf("ValidateSubAdminEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidateSubAdminPassword(t *testing.T) {
	const (
		lengthMsg  = "Password must be between 10-15 characters"
		classesMsg = "Password must contain at least one lowercase letter, one uppercase letter, one digit, and one special character"
		okMsg      = "Valid password"
	)
	cases := []struct {
		name     string
		password string
		want     bool
		reason   string
	}{
		{"valid", "Aa1!aaaaaa", true, okMsg},
		{"valid upper bound", "Aa1!aaaaaaaaaaa", true, okMsg},
		{"too short", "Aa1!aaaaa", false, lengthMsg},
		{"too long", "Aa1!aaaaaaaaaaaa", false, lengthMsg},
		{"empty", "", false, lengthMsg},
		{"length checked before classes", "aaaa", false, lengthMsg},
		{"multibyte length counts characters", "Aa1!áááááá", true, okMsg},
		{"multibyte upper bound", "Aa1!ééééééééééé", true, okMsg},
		{"multibyte too long", "Aa1!éééééééééééé", false, lengthMsg},
		{"no lowercase", "AA1!AAAAAA", false, classesMsg},
		{"no uppercase", "aa1!aaaaaa", false, classesMsg},
		{"no digit", "Aab!aaaaaa", false, classesMsg},
		{"no special", "Aa1aaaaaaa", false, classesMsg},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ValidateSubAdminPassword(tc.password)
			if ok != tc.want {
				t.Errorf("ValidateSubAdminPassword(%q) ok = %v, want %v", tc.password, ok, tc.want)
			}
			if reason != tc.reason {
				t.Errorf("ValidateSubAdminPassword(%q) reason = %q, want %q", tc.password, reason, tc.reason)
			}
		})
	}
}

func TestParseActionKind(t *testing.T) {
	for _, s := range []string{"block", "unblock", "remove"} {
		kind, err := ParseActionKind(s)
		if err != nil {
			t.Fatalf("ParseActionKind(%q): %v", s, err)
		}
		if string(kind) != s {
			t.Fatalf("ParseActionKind(%q) = %q", s, kind)
		}
	}
	for _, s := range []string{"", "ban", "BLOCK", "delete"} {
		if _, err := ParseActionKind(s); err == nil {
			t.Errorf("ParseActionKind(%q) succeeded, want error", s)
		}
	}
}

func TestSessionUsable(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		session AdminSession
		want    bool
	}{
		{"active unexpired", AdminSession{IsActive: true, ExpiresAt: now.Add(time.Hour)}, true},
		{"revoked", AdminSession{IsActive: false, ExpiresAt: now.Add(time.Hour)}, false},
		{"expired", AdminSession{IsActive: true, ExpiresAt: now.Add(-time.Minute)}, false},
		{"expired and revoked", AdminSession{IsActive: false, ExpiresAt: now.Add(-time.Minute)}, false},
	}
	for _, tc := range cases {
		if got := tc.session.Usable(now); got != tc.want {
			t.Errorf("%s: Usable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
