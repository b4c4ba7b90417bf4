// Package migrations holds the database schema as an ordered list of
// idempotent DDL statements applied at startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// The relational constraints are the source of truth for uniqueness and
// referential integrity: duplicate codes and dangling references surface as
// constraint violations from the store, not from application pre-checks.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		code text PRIMARY KEY,
		name text NOT NULL,
		description text NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id serial PRIMARY KEY,
		comp_code text NOT NULL REFERENCES companies (code) ON DELETE CASCADE,
		amt numeric NOT NULL,
		paid boolean NOT NULL DEFAULT false,
		add_date date NOT NULL DEFAULT CURRENT_DATE,
		paid_date date
	)`,
	`CREATE TABLE IF NOT EXISTS industries (
		code text PRIMARY KEY,
		industry text NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS company_industry (
		comp_code text NOT NULL REFERENCES companies (code) ON DELETE CASCADE,
		ind_code text NOT NULL REFERENCES industries (code) ON DELETE CASCADE,
		PRIMARY KEY (comp_code, ind_code)
	)`,
	`CREATE INDEX IF NOT EXISTS invoices_comp_code_idx ON invoices (comp_code)`,
}

// Apply runs every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
