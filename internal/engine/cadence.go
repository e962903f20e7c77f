package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// Cadence names the recurrence frequency governing how often a contact
// should be reminded. The set is closed; anything outside it is a
// programmer error, not user input to validate.
type Cadence string

const (
	CadenceDaily           Cadence = "daily"
	CadenceWeekly          Cadence = "weekly"
	CadenceBiWeekly        Cadence = "bi-weekly"
	CadenceEveryThreeWeeks Cadence = "every-three-weeks"
	CadenceMonthly         Cadence = "monthly"
	CadenceEverySixMonths  Cadence = "every-six-months"
	CadenceYearly          Cadence = "yearly"
	CadenceCustom          Cadence = "custom"
)

// Day is one fixed 24h step. All cadence math is wall-clock arithmetic over
// whole days; timezone-aware scheduling across travel is out of scope.
const Day = 24 * time.Hour

// periodTable maps every non-custom cadence to its period in days.
// Invariant: no entry is ever zero.
var periodTable = map[Cadence]int{
	CadenceDaily:           1,
	CadenceWeekly:          7,
	CadenceBiWeekly:        14,
	CadenceEveryThreeWeeks: 21,
	CadenceMonthly:         30,
	CadenceEverySixMonths:  180,
	CadenceYearly:          365,
}

// Known reports whether c belongs to the closed cadence enumeration.
func (c Cadence) Known() bool {
	if c == CadenceCustom {
		return true
	}
	_, ok := periodTable[c]
	return ok
}

// PeriodDays returns the recurrence period of c in days.
// customDays is consulted only for CadenceCustom; an interval below one day
// yields ok=false, the deliberate "unschedulable" state, not an error.
// A cadence outside the closed enumeration panics.
func PeriodDays(c Cadence, customDays int) (days int, ok bool) {
	if c == CadenceCustom {
		if customDays < 1 {
			return 0, false
		}
		return customDays, true
	}
	days, known := periodTable[c]
	if !known {
		panic(fmt.Sprintf("%s: %q", config.ErrUnknownCadence, c))
	}
	return days, true
}

// Period returns the cadence period as a duration, with the same
// unschedulable semantics as PeriodDays.
func Period(c Cadence, customDays int) (time.Duration, bool) {
	days, ok := PeriodDays(c, customDays)
	if !ok {
		return 0, false
	}
	return time.Duration(days) * Day, true
}

// NextDate computes the next due instant for cadence c anchored at from.
// ok is false when the cadence cannot produce a date (custom interval < 1);
// callers must treat that as a valid "not scheduled" state.
func NextDate(c Cadence, from time.Time, customDays int) (time.Time, bool) {
	period, ok := Period(c, customDays)
	if !ok {
		return time.Time{}, false
	}
	return from.Add(period), true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
