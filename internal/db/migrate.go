package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent
// (CREATE ... IF NOT EXISTS), so re-running on an up-to-date database
// is a no-op.
//
// Deliberately no ON DELETE CASCADE: ownership cascades are explicit
// child-first deletes performed by the service layer inside one
// transaction, so a failed cascade rolls back completely instead of
// leaving the referential machinery half-applied.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS cpq_versions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		uuid       TEXT NOT NULL,
		is_locked  INTEGER NOT NULL DEFAULT 0,
		is_active  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_versions_uuid ON cpq_versions(uuid)`,

	`CREATE TABLE IF NOT EXISTS cpq_products (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		version_id INTEGER NOT NULL REFERENCES cpq_versions(id),
		name       TEXT NOT NULL,
		code       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_version ON cpq_products(version_id)`,

	`CREATE TABLE IF NOT EXISTS cpq_factors (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id  INTEGER NOT NULL REFERENCES cpq_products(id),
		name        TEXT NOT NULL,
		is_optional INTEGER NOT NULL DEFAULT 0,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_factors_product ON cpq_factors(product_id)`,

	`CREATE TABLE IF NOT EXISTS cpq_options (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		factor_id  INTEGER NOT NULL REFERENCES cpq_factors(id),
		name       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_options_factor ON cpq_options(factor_id)`,

	`CREATE TABLE IF NOT EXISTS cpq_costs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES cpq_products(id),
		title      TEXT NOT NULL,
		code       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_costs_product_code ON cpq_costs(product_id, code)`,

	`CREATE TABLE IF NOT EXISTS cpq_rules (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		cost_id    INTEGER NOT NULL REFERENCES cpq_costs(id),
		condition  TEXT NOT NULL DEFAULT '',
		action     TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rules_cost ON cpq_rules(cost_id)`,

	`CREATE TABLE IF NOT EXISTS cpq_leadtimes (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES cpq_products(id),
		title      TEXT NOT NULL,
		condition  TEXT NOT NULL DEFAULT '',
		days       INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leadtimes_product ON cpq_leadtimes(product_id)`,
}
