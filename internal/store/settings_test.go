package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cadence/internal/engine"
)

func TestPreferences_Default(t *testing.T) {
	db := openTestDB(t)

	got, err := db.Preferences()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultPreferences(), got)
}

func TestPreferences_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	want := engine.Preferences{Frequency: 3, Times: []string{"08:00", "13:00", "20:30"}}
	require.NoError(t, db.SavePreferences(want))

	got, err := db.Preferences()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSavePreferences_Overwrites(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SavePreferences(engine.Preferences{Frequency: 2, Times: []string{"08:00", "18:00"}}))
	require.NoError(t, db.SavePreferences(engine.Preferences{Frequency: 1, Times: []string{"10:00"}}))

	got, err := db.Preferences()
	require.NoError(t, err)
	assert.Equal(t, 1, got.Frequency)
	assert.Equal(t, []string{"10:00"}, got.Times)
}
