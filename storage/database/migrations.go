package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// migrations are applied in order; each entry runs at most once per database.
var migrations = []string{
	`CREATE TABLE "user" (
		id            uuid PRIMARY KEY,
		name          text NOT NULL DEFAULT '',
		username      text NOT NULL UNIQUE,
		email         text NOT NULL UNIQUE,
		is_active     boolean,
		roles         text NOT NULL DEFAULT '',
		password_hash bytea,
		created_at    timestamptz NOT NULL,
		updated_at    timestamptz NOT NULL,
		last_login    timestamptz
	)`,
	`CREATE TABLE schedule (
		request_id    text PRIMARY KEY,
		title         text NOT NULL DEFAULT '',
		tutor_id      uuid NOT NULL REFERENCES "user" (id),
		student_id    uuid NOT NULL REFERENCES "user" (id),
		student_email text
	)`,
	`CREATE TABLE schedule_event (
		id         uuid PRIMARY KEY,
		request_id text NOT NULL REFERENCES schedule (request_id) ON DELETE CASCADE,
		title      text,
		starts_at  timestamptz NOT NULL,
		ends_at    timestamptz NOT NULL,
		ord        integer NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX schedule_event_request_idx ON schedule_event (request_id, ord)`,
}

// Migrate applies all pending migrations inside one transaction each.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migration (version integer PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())`,
	); err != nil {
		return errors.Wrap(err, "creating schema_migration")
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migration`).Scan(&current); err != nil {
		return errors.Wrap(err, "reading schema version")
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return errors.Wrap(err, "starting migration tx")
		}
		if _, err = tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "applying migration %d", i+1)
		}
		if _, err = tx.Exec(`INSERT INTO schema_migration (version) VALUES ($1)`, i+1); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "recording migration %d", i+1)
		}
		if err = tx.Commit(); err != nil {
			return errors.Wrapf(err, "committing migration %d", i+1)
		}
	}
	return nil
}
