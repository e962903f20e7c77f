package engine

import "time"

// OccurrencesInRange enumerates every instant at which the contact's
// reminder recurs within [start, end], inclusive on both ends.
//
// The returned sequence is strictly increasing and spaced exactly one
// period apart. With no anchor, or an inverted range, it is empty. When the
// cadence yields no fixed period (unschedulable custom interval) the anchor
// itself is returned if it falls in range (the non-recurring case).
//
// The anchor is fast-forwarded to the first occurrence ≥ start with whole-
// period jumps, never day by day, so far-future ranges stay cheap.
func OccurrencesInRange(c Contact, start, end time.Time) []time.Time {
	if c.NextReminder == nil || end.Before(start) {
		return nil
	}
	anchor := *c.NextReminder

	period, ok := Period(c.Cadence, c.CustomDays)
	if !ok {
		if !anchor.Before(start) && !anchor.After(end) {
			return []time.Time{anchor}
		}
		return nil
	}

	if anchor.Before(start) {
		delta := start.Sub(anchor)
		jumps := delta / period
		if delta%period != 0 {
			jumps++
		}
		anchor = anchor.Add(time.Duration(jumps) * period)
	}

	var out []time.Time
	for t := anchor; !t.After(end); t = t.Add(period) {
		out = append(out, t)
	}
	return out
}

// DueOn reports whether the contact's reminder recurs on the calendar day
// containing at. It reuses the range projection with a single-day window so
// calendar and agenda views share one recurrence implementation.
func DueOn(c Contact, at time.Time) bool {
	start := StartOfDay(at)
	return len(OccurrencesInRange(c, start, start.Add(Day-time.Nanosecond))) > 0
}

// BirthdayOccurrences projects a birthday as calendar-day markers over the
// previous, current, and next year relative to now, so boundary queries
// near year edges see their neighbors. Years before a known birth year are
// skipped. No anchor is involved; the marker derives from month and day.
func BirthdayOccurrences(b Birthday, now time.Time) []time.Time {
	loc := now.Location()
	var out []time.Time
	for _, y := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		if b.YearKnown && y < b.Year {
			continue
		}
		out = append(out, b.OccurrenceIn(y, loc))
	}
	return out
}

// NextBirthday returns the first birthday occurrence on or after now's
// calendar day, with the age turned on that day (0 when the year is
// unknown). Used as the sorting key for upcoming views.
func NextBirthday(b Birthday, now time.Time) (time.Time, int) {
	candidate := b.OccurrenceIn(now.Year(), now.Location())
	if candidate.Before(StartOfDay(now)) {
		candidate = b.OccurrenceIn(now.Year()+1, now.Location())
	}
	return candidate, b.Age(candidate.Year())
}
