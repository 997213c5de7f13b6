package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness constraint,
// such as a duplicate admin email.
var ErrConflict = errors.New("conflict")

// isUniqueViolation reports whether err is a uniqueness-constraint failure.
// None of the supported drivers expose a portable error code for this, so we
// match on the message: SQLite says "UNIQUE constraint failed", PostgreSQL
// "duplicate key value violates unique constraint", MySQL "Duplicate entry".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
