package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// Contact is the engine's view of one tracked relationship. The persistence
// layer owns the record; the engine treats it as an immutable value per call.
type Contact struct {
	// ID is the opaque identifier assigned by the store.
	ID string

	// Name is the display name. Blank names get a fallback label in any
	// user-facing text; see DisplayName.
	Name string

	// Cadence governs how often the user should be reminded.
	Cadence Cadence

	// CustomDays is the period in days when Cadence is CadenceCustom.
	// Ignored otherwise.
	CustomDays int

	// LastContacted is the most recent logged interaction. Nil means never.
	LastContacted *time.Time

	// NextReminder is the cadence anchor: the instant the user should next
	// be reminded. Nil means no reminder is scheduled.
	NextReminder *time.Time

	// Birthday is optional; nil when unknown.
	Birthday *Birthday

	// Archived contacts keep their anchor but are excluded from scheduling
	// and notification delivery.
	Archived bool
}

// DisplayName returns the trimmed name, or a neutral fallback label when
// the name is blank.
func (c Contact) DisplayName() string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return config.FallbackContactName
	}
	return name
}

// Birthday is a recurring calendar day, with the year optionally unknown.
type Birthday struct {
	Month     time.Month
	Day       int
	Year      int // valid only when YearKnown
	YearKnown bool
}

var errBirthdayParse = errors.New(config.ErrBirthdayParse)

// ParseBirthday parses "YYYY-MM-DD" (year known) or "MM-DD" (year unknown).
// Validation is leap-year aware: Feb 29 is accepted for a year-unknown
// birthday and for leap years, rejected otherwise.
func ParseBirthday(value string) (Birthday, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(config.BirthdayFormatFull, value); err == nil {
		return Birthday{Month: t.Month(), Day: t.Day(), Year: t.Year(), YearKnown: true}, nil
	}
	if t, err := time.Parse(config.BirthdayFormatShort, value); err == nil {
		// time.Parse validates the day against year 0, which is a leap
		// year, so --02-29 is accepted here.
		return Birthday{Month: t.Month(), Day: t.Day(), YearKnown: false}, nil
	}
	return Birthday{}, errBirthdayParse
}

// String renders the birthday back into its wire form.
func (b Birthday) String() string {
	if b.YearKnown {
		return time.Date(b.Year, b.Month, b.Day, 0, 0, 0, 0, time.UTC).Format(config.BirthdayFormatFull)
	}
	return time.Date(config.DefaultLeapYear, b.Month, b.Day, 0, 0, 0, 0, time.UTC).Format(config.BirthdayFormatShort)
}

// OccurrenceIn returns the birthday's calendar-day marker in the given year.
// time.Date normalizes Feb 29 to March 1 in non-leap years, so leaplings
// are celebrated on March 1 when the target year has no Feb 29.
func (b Birthday) OccurrenceIn(year int, loc *time.Location) time.Time {
	return time.Date(year, b.Month, b.Day, 0, 0, 0, 0, loc)
}

// IsToday reports whether the birthday falls on now's calendar day.
func (b Birthday) IsToday(now time.Time) bool {
	return SameDay(b.OccurrenceIn(now.Year(), now.Location()), now)
}

// Age returns the age turned on the occurrence in the given year, or 0 when
// the birth year is unknown.
func (b Birthday) Age(year int) int {
	if !b.YearKnown {
		return 0
	}
	return year - b.Year
}
