package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id             TEXT PRIMARY KEY,
		config_path    TEXT NOT NULL,
		state          TEXT NOT NULL DEFAULT 'running'
		               CHECK(state IN ('running','succeeded','failed')),
		group_count    INTEGER NOT NULL DEFAULT 0,
		conflict_count INTEGER NOT NULL DEFAULT 0,
		started_at     TEXT NOT NULL,
		finished_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

	`CREATE TABLE IF NOT EXISTS run_groups (
		id           TEXT PRIMARY KEY,
		run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		semester     TEXT NOT NULL,
		subject      TEXT NOT NULL,
		group_code   TEXT NOT NULL,
		label        TEXT NOT NULL,
		letter       TEXT NOT NULL DEFAULT '',
		weekday      TEXT NOT NULL DEFAULT '',
		time_slot    TEXT NOT NULL DEFAULT '',
		classroom    TEXT NOT NULL DEFAULT '',
		capacity     INTEGER NOT NULL DEFAULT 0,
		mixed        INTEGER NOT NULL DEFAULT 0,
		simple_group TEXT NOT NULL DEFAULT '',
		double_group TEXT NOT NULL DEFAULT '',
		professor    TEXT NOT NULL DEFAULT '',
		professor_id TEXT NOT NULL DEFAULT '',
		dates        TEXT NOT NULL DEFAULT '[]',
		students     TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE INDEX IF NOT EXISTS idx_run_groups_run ON run_groups(run_id)`,

	`CREATE TABLE IF NOT EXISTS run_conflicts (
		id          INTEGER PRIMARY KEY,
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		category    TEXT NOT NULL
		            CHECK(category IN ('profesores','aulas','alumnos')),
		semester    TEXT NOT NULL DEFAULT '',
		subject     TEXT NOT NULL DEFAULT '',
		group_label TEXT NOT NULL DEFAULT '',
		weekday     TEXT NOT NULL DEFAULT '',
		time_slot   TEXT NOT NULL DEFAULT '',
		date        TEXT NOT NULL DEFAULT '',
		classroom   TEXT NOT NULL DEFAULT '',
		professor   TEXT NOT NULL DEFAULT '',
		detail      TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_run_conflicts_run ON run_conflicts(run_id)`,

	// Record the worker count used for the run
	`ALTER TABLE runs ADD COLUMN workers INTEGER NOT NULL DEFAULT 1`,
}
