package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// ResolveSnooze decides the actual new anchor for a snooze request. Pure
// timestamp comparison; the caller persists the result and re-invokes the
// trigger resolver with it.
//
// Boundary snapping: a request landing within the window before the next
// natural cadence boundary (existing anchor + one period) snaps onto that
// boundary, instead of creating a reminder only hours away from the real
// next occurrence. Outside the window the raw request is honored.
//
// Birthday priority: when the prompt being snoozed was surfaced by a
// birthday override and the real cadence anchor is still in the future, the
// result is clamped so the anchor never moves earlier than it already was.
//
// window <= 0 selects the default width.
func ResolveSnooze(c Contact, requested, now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = config.DefaultSnapWindow
	}

	result := requested
	if c.NextReminder == nil {
		return result
	}
	anchor := *c.NextReminder

	if period, ok := Period(c.Cadence, c.CustomDays); ok {
		boundary := anchor.Add(period)
		if !requested.After(boundary) && boundary.Sub(requested) <= window {
			result = boundary
			slog.Debug(config.MsgSnoozeSnapped,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyContact, c.ID,
				config.LogKeyRequested, requested,
				config.LogKeyResult, result,
			)
		}
	}

	if c.Birthday != nil && c.Birthday.IsToday(now) && anchor.After(now) && result.Before(anchor) {
		result = anchor
	}
	return result
}
