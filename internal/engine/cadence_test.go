package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNextDate_PeriodExact verifies the core cadence arithmetic: the next
// date is exactly the period away from the anchor, in milliseconds.
func TestNextDate_PeriodExact(t *testing.T) {
	from := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		cadence Cadence
		days    int64
	}{
		{CadenceDaily, 1},
		{CadenceWeekly, 7},
		{CadenceBiWeekly, 14},
		{CadenceEveryThreeWeeks, 21},
		{CadenceMonthly, 30},
		{CadenceEverySixMonths, 180},
		{CadenceYearly, 365},
	}

	for _, tt := range tests {
		t.Run(string(tt.cadence), func(t *testing.T) {
			next, ok := NextDate(tt.cadence, from, 0)
			assert.True(t, ok)
			assert.Equal(t, tt.days*86_400_000, next.UnixMilli()-from.UnixMilli())
		})
	}
}

func TestNextDate_Custom(t *testing.T) {
	from := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	next, ok := NextDate(CadenceCustom, from, 11)
	assert.True(t, ok)
	assert.Equal(t, from.Add(11*Day), next)
}

// TestNextDate_CustomUnschedulable checks that an invalid custom interval
// yields "no date", not an error.
func TestNextDate_CustomUnschedulable(t *testing.T) {
	from := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	for _, days := range []int{0, -3} {
		_, ok := NextDate(CadenceCustom, from, days)
		assert.False(t, ok, "custom interval %d must be unschedulable", days)
	}
}

// TestPeriodDays_UnknownCadencePanics asserts the closed-enumeration
// invariant: a cadence outside the set is a programmer error.
func TestPeriodDays_UnknownCadencePanics(t *testing.T) {
	assert.Panics(t, func() {
		PeriodDays(Cadence("fortnightly"), 0)
	})
}

func TestCadence_Known(t *testing.T) {
	assert.True(t, CadenceWeekly.Known())
	assert.True(t, CadenceCustom.Known())
	assert.False(t, Cadence("sometimes").Known())
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2026, 6, 15, 18, 42, 7, 123, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), StartOfDay(at))
}
