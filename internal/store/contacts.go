package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tartampluch/go-cadence/internal/engine"
)

// contactRow mirrors the contacts table; timestamps are epoch milliseconds.
type contactRow struct {
	ID            string
	Name          string
	Cadence       string
	CustomDays    int
	LastContacted sql.NullInt64
	NextReminder  sql.NullInt64
	Birthday      sql.NullString
	Archived      bool
}

const contactColumns = "id, name, cadence, custom_days, last_contacted, next_reminder, birthday, archived"

// InsertContact stores a new contact.
func (db *DB) InsertContact(c engine.Contact) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO contacts (id, name, cadence, custom_days, last_contacted, next_reminder, birthday, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, string(c.Cadence), c.CustomDays,
		millisOrNull(c.LastContacted), millisOrNull(c.NextReminder),
		birthdayOrNull(c.Birthday), c.Archived, now, now)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ContactByID returns one contact, or nil when the id is unknown.
func (db *DB) ContactByID(id string) (*engine.Contact, error) {
	var row contactRow
	err := db.QueryRow(`
		SELECT `+contactColumns+` FROM contacts WHERE id = ?
	`, id).Scan(&row.ID, &row.Name, &row.Cadence, &row.CustomDays,
		&row.LastContacted, &row.NextReminder, &row.Birthday, &row.Archived)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	c, err := row.toContact()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContact rewrites every mutable field of the contact.
func (db *DB) UpdateContact(c engine.Contact) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		UPDATE contacts
		SET name = ?, cadence = ?, custom_days = ?, last_contacted = ?, next_reminder = ?, birthday = ?, archived = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, string(c.Cadence), c.CustomDays,
		millisOrNull(c.LastContacted), millisOrNull(c.NextReminder),
		birthdayOrNull(c.Birthday), c.Archived, now, c.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return engine.ErrContactMissing
	}
	return nil
}

// ListContacts returns contacts ordered by their next reminder (soonest
// first, unscheduled last). Archived contacts are excluded unless asked for.
func (db *DB) ListContacts(includeArchived bool) ([]engine.Contact, error) {
	query := `
		SELECT ` + contactColumns + ` FROM contacts
	`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY next_reminder IS NULL, next_reminder ASC, created_at ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []engine.Contact
	for rows.Next() {
		var row contactRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Cadence, &row.CustomDays,
			&row.LastContacted, &row.NextReminder, &row.Birthday, &row.Archived); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c, err := row.toContact()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteContact removes a contact permanently. The UI prefers archiving;
// deletion exists for import rollbacks and tests.
func (db *DB) DeleteContact(id string) error {
	_, err := db.Exec("DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func (row contactRow) toContact() (engine.Contact, error) {
	c := engine.Contact{
		ID:         row.ID,
		Name:       row.Name,
		Cadence:    engine.Cadence(row.Cadence),
		CustomDays: row.CustomDays,
		Archived:   row.Archived,
	}
	if row.LastContacted.Valid {
		t := time.UnixMilli(row.LastContacted.Int64)
		c.LastContacted = &t
	}
	if row.NextReminder.Valid {
		t := time.UnixMilli(row.NextReminder.Int64)
		c.NextReminder = &t
	}
	if row.Birthday.Valid && row.Birthday.String != "" {
		b, err := engine.ParseBirthday(row.Birthday.String)
		if err != nil {
			return engine.Contact{}, fmt.Errorf("contact %s: %w", row.ID, err)
		}
		c.Birthday = &b
	}
	return c, nil
}

func millisOrNull(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func birthdayOrNull(b *engine.Birthday) any {
	if b == nil {
		return nil
	}
	return b.String()
}
