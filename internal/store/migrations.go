package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "contacts: tracked relationships and their cadence anchors",
		SQL: `
CREATE TABLE contacts (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    cadence         TEXT NOT NULL,
    custom_days     INTEGER NOT NULL DEFAULT 0,

    -- Epoch milliseconds; NULL means never / not scheduled
    last_contacted  INTEGER,
    next_reminder   INTEGER,

    -- "MM-DD" or "YYYY-MM-DD"; NULL when unknown
    birthday        TEXT,

    archived        INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL
);

CREATE INDEX idx_contacts_next_reminder ON contacts(next_reminder);
CREATE INDEX idx_contacts_archived      ON contacts(archived);
`,
	},
	{
		Version:     2,
		Description: "settings: notification preferences as a single-row table",
		SQL: `
CREATE TABLE settings (
    id              INTEGER PRIMARY KEY CHECK (id = 1),
    notify_frequency INTEGER NOT NULL DEFAULT 1,
    notify_times    TEXT NOT NULL DEFAULT '09:00',
    updated_at      INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
