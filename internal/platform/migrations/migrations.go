// Package migrations applies the database schema. Statements are embedded
// and executed in order; each is written to be idempotent so Apply can run
// on every boot.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS account (
		account_id BIGSERIAL PRIMARY KEY,
		username   TEXT NOT NULL,
		password   TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS account_username_key ON account (username)`,
	`CREATE TABLE IF NOT EXISTS message (
		message_id        BIGSERIAL PRIMARY KEY,
		posted_by         BIGINT NOT NULL,
		message_text      TEXT NOT NULL,
		time_posted_epoch BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS message_posted_by_idx ON message (posted_by)`,
}

// Apply executes all schema statements against the database.
// posted_by deliberately carries no foreign key: authorship is validated by
// the message service at insert time only.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
