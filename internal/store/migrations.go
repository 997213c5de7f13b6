package store

import (
	"fmt"
	"strings"
)

// migrate creates the schema if it does not exist. Statements use dialect
// tokens for the handful of types that differ between SQLite, PostgreSQL,
// and MySQL; everything else is written in the common subset. MySQL cannot
// put UNIQUE or PRIMARY KEY on unbounded TEXT, hence {{STR}} for any column
// that carries a constraint.
func (s *Store) migrate() error {
	repl := dialectReplacer(s.driver)

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS admin_users (
			id {{PK}},
			email {{STR}} UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			admin_type {{STR}} NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_by BIGINT,
			last_login_at {{TS}},
			created_at {{TS}} NOT NULL
		)`,

		// Sessions survive the deletion of their owning admin (they are the
		// audit trail), so admin_user_id is a plain column, not a foreign key.
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			id {{PK}},
			admin_user_id BIGINT NOT NULL,
			token {{STR}} UNIQUE NOT NULL,
			ip_address {{STR}} NOT NULL,
			user_agent TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at {{TS}} NOT NULL,
			expires_at {{TS}} NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS vendor_actions (
			id {{PK}},
			admin_user_id BIGINT NOT NULL,
			vendor_id {{STR}} NOT NULL,
			action_type {{STR}} NOT NULL,
			reason TEXT NOT NULL,
			created_at {{TS}} NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customer_actions (
			id {{PK}},
			admin_user_id BIGINT NOT NULL,
			customer_id {{STR}} NOT NULL,
			action_type {{STR}} NOT NULL,
			reason TEXT NOT NULL,
			created_at {{TS}} NOT NULL
		)`,

		// Directory tables. These records belong to the wider platform; the
		// console reads them for listings and flips the moderation-relevant
		// flags.
		`CREATE TABLE IF NOT EXISTS users (
			id {{PK}},
			email {{STR}} UNIQUE NOT NULL,
			first_name {{STR}} NOT NULL,
			last_name {{STR}} NOT NULL,
			phone {{STR}} NOT NULL,
			user_type {{STR}} NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at {{TS}} NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS vendors (
			id {{STR}} PRIMARY KEY,
			user_id BIGINT NOT NULL,
			business_name {{STR}} NOT NULL,
			vendor_name {{STR}} NOT NULL,
			email {{STR}} NOT NULL,
			phone {{STR}} NOT NULL,
			categories TEXT NOT NULL,
			rating {{REAL}} NOT NULL DEFAULT 0,
			total_reviews BIGINT NOT NULL DEFAULT 0,
			subscription_plan {{STR}} NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at {{TS}} NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id {{STR}} PRIMARY KEY,
			user_id BIGINT NOT NULL,
			city {{STR}} NOT NULL,
			state {{STR}} NOT NULL,
			created_at {{TS}} NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id {{PK}},
			customer_id {{STR}} NOT NULL,
			vendor_id {{STR}} NOT NULL,
			total_amount {{REAL}} NOT NULL DEFAULT 0,
			status {{STR}} NOT NULL,
			created_at {{TS}} NOT NULL
		)`,

		// Key-value settings (telemetry opt-out, instance ID).
		`CREATE TABLE IF NOT EXISTS settings (
			name {{STR}} PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_admin_sessions_token ON admin_sessions(token)`,
		`CREATE INDEX IF NOT EXISTS idx_vendor_actions_vendor ON vendor_actions(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_customer_actions_customer ON customer_actions(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_vendor ON bookings(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings(customer_id)`,
	}

	for _, m := range migrations {
		stmt := repl.Replace(m)
		// MySQL has no CREATE INDEX IF NOT EXISTS; a duplicate-name error on
		// re-run is the idempotency signal there.
		if s.driver == "mysql" && strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS") {
			stmt = strings.Replace(stmt, "CREATE INDEX IF NOT EXISTS", "CREATE INDEX", 1)
			if _, err := s.db.Exec(stmt); err != nil {
				if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
					continue
				}
				return fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
			}
			continue
		}
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

func dialectReplacer(driver string) *strings.Replacer {
	switch driver {
	case "postgres":
		return strings.NewReplacer(
			"{{PK}}", "BIGSERIAL PRIMARY KEY",
			"{{TS}}", "TIMESTAMPTZ",
			"{{STR}}", "VARCHAR(255)",
			"{{REAL}}", "DOUBLE PRECISION",
		)
	case "mysql":
		return strings.NewReplacer(
			"{{PK}}", "BIGINT PRIMARY KEY AUTO_INCREMENT",
			"{{TS}}", "DATETIME",
			"{{STR}}", "VARCHAR(255)",
			"{{REAL}}", "DOUBLE",
		)
	default: // sqlite
		return strings.NewReplacer(
			"{{PK}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{TS}}", "DATETIME",
			"{{STR}}", "TEXT",
			"{{REAL}}", "REAL",
		)
	}
}
