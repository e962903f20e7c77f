package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBirthday_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantErr   bool
		yearKnown bool
		month     time.Month
		day       int
	}{
		{"Full date", "1990-10-25", false, true, time.October, 25},
		{"Year unknown", "10-25", false, false, time.October, 25},
		{"Leapling full", "2000-02-29", false, true, time.February, 29},
		{"Leapling no year", "02-29", false, false, time.February, 29},
		{"Non-leap Feb 29", "2001-02-29", true, false, 0, 0},
		{"Bad month", "1990-13-01", true, false, 0, 0},
		{"Bad day", "1990-04-31", true, false, 0, 0},
		{"Garbage", "not-a-date", true, false, 0, 0},
		{"Empty", "", true, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBirthday(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.yearKnown, b.YearKnown)
			assert.Equal(t, tt.month, b.Month)
			assert.Equal(t, tt.day, b.Day)
		})
	}
}

func TestBirthday_RoundTrip(t *testing.T) {
	for _, value := range []string{"1990-10-25", "10-25", "02-29"} {
		b, err := ParseBirthday(value)
		assert.NoError(t, err)
		assert.Equal(t, value, b.String())
	}
}

func TestBirthday_IsToday(t *testing.T) {
	b, err := ParseBirthday("1990-06-15")
	assert.NoError(t, err)

	assert.True(t, b.IsToday(time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC)))
	assert.False(t, b.IsToday(time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)))
}

// TestBirthday_IsToday_Leapling checks the Feb 29 -> Mar 1 normalization in
// non-leap years.
func TestBirthday_IsToday_Leapling(t *testing.T) {
	b, err := ParseBirthday("2000-02-29")
	assert.NoError(t, err)

	// 2026 is not a leap year: celebrated March 1.
	assert.True(t, b.IsToday(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.False(t, b.IsToday(time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)))

	// 2028 is a leap year: Feb 29 is preserved.
	assert.True(t, b.IsToday(time.Date(2028, 2, 29, 10, 0, 0, 0, time.UTC)))
	assert.False(t, b.IsToday(time.Date(2028, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestContact_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada", Contact{Name: " Ada "}.DisplayName())
	assert.Equal(t, "this connection", Contact{Name: "   "}.DisplayName())
	assert.Equal(t, "this connection", Contact{}.DisplayName())
}
