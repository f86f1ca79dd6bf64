package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema on boot. Statements are idempotent, so a
// restart against an existing database is a no-op.
//
// Constraint names matter: the repositories map pq errors by constraint
// name, and these match the Postgres defaults for inline UNIQUE and
// REFERENCES declarations.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		email        TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'user',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS competitions (
		id                 SERIAL PRIMARY KEY,
		title              TEXT NOT NULL,
		short_description  TEXT NOT NULL,
		description        TEXT NOT NULL,
		category           TEXT NOT NULL,
		type               TEXT NOT NULL,
		entry_requirements TEXT NOT NULL,
		prize              TEXT NOT NULL,
		deadline           TIMESTAMPTZ NOT NULL,
		status             TEXT NOT NULL DEFAULT 'active',
		image_key          TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT competitions_title_key UNIQUE (title)
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id             SERIAL PRIMARY KEY,
		competition_id INTEGER NOT NULL REFERENCES competitions (id),
		user_id        TEXT NOT NULL REFERENCES users (id),
		content        TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT submissions_user_id_competition_id_key UNIQUE (user_id, competition_id)
	)`,

	// winner_id is added after submissions exists because the two tables
	// reference each other.
	`ALTER TABLE competitions
		ADD COLUMN IF NOT EXISTS winner_id INTEGER REFERENCES submissions (id)`,

	`CREATE TABLE IF NOT EXISTS participations (
		id             SERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users (id),
		competition_id INTEGER NOT NULL REFERENCES competitions (id),
		status         TEXT NOT NULL DEFAULT 'pending',
		progress       INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
		result         TEXT,
		position       INTEGER,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT participations_user_id_competition_id_key UNIQUE (user_id, competition_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_achievements (
		id             SERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users (id),
		achievement_id TEXT NOT NULL,
		progress       INTEGER NOT NULL DEFAULT 0,
		unlocked       BOOLEAN NOT NULL DEFAULT false,
		unlocked_at    TIMESTAMPTZ,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT user_achievements_user_id_achievement_id_key UNIQUE (user_id, achievement_id)
	)`,

	`CREATE TABLE IF NOT EXISTS saved_competitions (
		id             SERIAL PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users (id),
		competition_id INTEGER NOT NULL REFERENCES competitions (id) ON DELETE CASCADE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT saved_competitions_user_id_competition_id_key UNIQUE (user_id, competition_id)
	)`,

	`CREATE INDEX IF NOT EXISTS participations_user_id_idx ON participations (user_id)`,
	`CREATE INDEX IF NOT EXISTS submissions_competition_id_status_idx ON submissions (competition_id, status)`,
	`CREATE INDEX IF NOT EXISTS competitions_status_idx ON competitions (status)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
