package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cadence/internal/engine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndGetContact(t *testing.T) {
	db := openTestDB(t)

	next := time.Date(2026, 6, 22, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC)
	bday, err := engine.ParseBirthday("1990-10-25")
	require.NoError(t, err)

	require.NoError(t, db.InsertContact(engine.Contact{
		ID:            "c1",
		Name:          "Ada Lovelace",
		Cadence:       engine.CadenceWeekly,
		LastContacted: &last,
		NextReminder:  &next,
		Birthday:      &bday,
	}))

	got, err := db.ContactByID("c1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, engine.CadenceWeekly, got.Cadence)
	assert.Equal(t, next.UnixMilli(), got.NextReminder.UnixMilli())
	assert.Equal(t, last.UnixMilli(), got.LastContacted.UnixMilli())
	require.NotNil(t, got.Birthday)
	assert.Equal(t, "1990-10-25", got.Birthday.String())
	assert.False(t, got.Archived)
}

func TestContactByID_Unknown(t *testing.T) {
	db := openTestDB(t)

	got, err := db.ContactByID("ghost")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown id is nil, not an error")
}

func TestInsertContact_NullableFields(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertContact(engine.Contact{
		ID:      "c1",
		Name:    "Blaise",
		Cadence: engine.CadenceCustom,
	}))

	got, err := db.ContactByID("c1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Nil(t, got.LastContacted, "never contacted stays null")
	assert.Nil(t, got.NextReminder, "not scheduled stays null")
	assert.Nil(t, got.Birthday)
}

func TestUpdateContact(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertContact(engine.Contact{
		ID: "c1", Name: "Ada", Cadence: engine.CadenceWeekly,
	}))

	next := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.UpdateContact(engine.Contact{
		ID:           "c1",
		Name:         "Ada L.",
		Cadence:      engine.CadenceCustom,
		CustomDays:   12,
		NextReminder: &next,
		Archived:     true,
	}))

	got, err := db.ContactByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)
	assert.Equal(t, engine.CadenceCustom, got.Cadence)
	assert.Equal(t, 12, got.CustomDays)
	assert.Equal(t, next.UnixMilli(), got.NextReminder.UnixMilli())
	assert.True(t, got.Archived)
}

func TestUpdateContact_Missing(t *testing.T) {
	db := openTestDB(t)

	err := db.UpdateContact(engine.Contact{ID: "ghost", Name: "x", Cadence: engine.CadenceWeekly})
	assert.ErrorIs(t, err, engine.ErrContactMissing)
}

func TestListContacts_OrderAndArchiveFilter(t *testing.T) {
	db := openTestDB(t)

	soon := time.Date(2026, 6, 16, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 7, 16, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.InsertContact(engine.Contact{ID: "later", Name: "B", Cadence: engine.CadenceMonthly, NextReminder: &later}))
	require.NoError(t, db.InsertContact(engine.Contact{ID: "none", Name: "C", Cadence: engine.CadenceCustom}))
	require.NoError(t, db.InsertContact(engine.Contact{ID: "soon", Name: "A", Cadence: engine.CadenceWeekly, NextReminder: &soon}))
	require.NoError(t, db.InsertContact(engine.Contact{ID: "gone", Name: "D", Cadence: engine.CadenceWeekly, NextReminder: &soon, Archived: true}))

	active, err := db.ListContacts(false)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "soon", active[0].ID)
	assert.Equal(t, "later", active[1].ID)
	assert.Equal(t, "none", active[2].ID, "unscheduled contacts sort last")

	all, err := db.ListContacts(true)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteContact(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertContact(engine.Contact{ID: "c1", Name: "Ada", Cadence: engine.CadenceWeekly}))
	require.NoError(t, db.DeleteContact("c1"))

	got, err := db.ContactByID("c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSchemaVersion(t *testing.T) {
	db := openTestDB(t)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}
