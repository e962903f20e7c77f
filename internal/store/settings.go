package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-cadence/internal/engine"
)

const timesSeparator = ","

// Preferences returns the stored notification preferences, or the single
// default morning slot when none were ever saved.
func (db *DB) Preferences() (engine.Preferences, error) {
	var frequency int
	var times string
	err := db.QueryRow(`
		SELECT notify_frequency, notify_times FROM settings WHERE id = 1
	`).Scan(&frequency, &times)
	if err == sql.ErrNoRows {
		return engine.DefaultPreferences(), nil
	}
	if err != nil {
		return engine.Preferences{}, fmt.Errorf("get settings: %w", err)
	}
	return engine.Preferences{
		Frequency: frequency,
		Times:     strings.Split(times, timesSeparator),
	}, nil
}

// SavePreferences upserts the single settings row.
func (db *DB) SavePreferences(p engine.Preferences) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO settings (id, notify_frequency, notify_times, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET notify_frequency = excluded.notify_frequency,
		                               notify_times = excluded.notify_times,
		                               updated_at = excluded.updated_at
	`, p.Frequency, strings.Join(p.Times, timesSeparator), now)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
