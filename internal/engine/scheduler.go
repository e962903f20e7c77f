package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// ErrContactMissing is returned when an id resolves to no stored contact.
var ErrContactMissing = errors.New(config.ErrContactMissing)

// Store is the persistence collaborator consumed by the Scheduler. The
// engine never issues raw queries; it exchanges Contact values.
type Store interface {
	InsertContact(c Contact) error
	ContactByID(id string) (*Contact, error)
	UpdateContact(c Contact) error
	ListContacts(includeArchived bool) ([]Contact, error)
}

// Scheduler is the scheduling API exposed to the rest of the app. It wires
// the pure cadence math to the persistence and delivery collaborators.
// Per-contact scheduling is independent and idempotent, so calls for
// different contacts may run in parallel; calls for the same contact id
// must be serialized by the caller.
type Scheduler struct {
	Clock    Clock
	Store    Store
	Resolver *Resolver
}

// AddContact computes the first reminder and persists the contact, then
// schedules its triggers. When the cadence cannot produce a date (invalid
// custom interval) the anchor defaults to "now" so the contact still
// surfaces once.
func (s *Scheduler) AddContact(ctx context.Context, c Contact, prefs Preferences) (Contact, error) {
	now := s.Clock.Now()
	if c.NextReminder == nil {
		if next, ok := NextDate(c.Cadence, now, c.CustomDays); ok {
			c.NextReminder = &next
		} else {
			c.NextReminder = &now
		}
	}
	if err := s.Store.InsertContact(c); err != nil {
		return Contact{}, err
	}
	if _, err := s.Resolver.ScheduleReminder(ctx, c, prefs); err != nil {
		return Contact{}, err
	}
	return c, nil
}

// LogInteraction records an interaction and recomputes the anchor from the
// interaction time plus one cadence period. An unschedulable cadence clears
// the anchor; "not scheduled" is a valid state.
func (s *Scheduler) LogInteraction(ctx context.Context, id string, at time.Time, prefs Preferences) (*Contact, error) {
	c, err := s.contact(id)
	if err != nil {
		return nil, err
	}
	c.LastContacted = &at
	if next, ok := NextDate(c.Cadence, at, c.CustomDays); ok {
		c.NextReminder = &next
	} else {
		c.NextReminder = nil
	}
	return s.persist(ctx, c, prefs)
}

// ChangeCadence switches the contact's cadence and recomputes the anchor
// from the supplied anchor instant, or "now" when the caller has none.
func (s *Scheduler) ChangeCadence(ctx context.Context, id string, cadence Cadence, customDays int, anchor *time.Time, prefs Preferences) (*Contact, error) {
	c, err := s.contact(id)
	if err != nil {
		return nil, err
	}
	from := s.Clock.Now()
	if anchor != nil {
		from = *anchor
	}
	c.Cadence = cadence
	c.CustomDays = customDays
	if next, ok := NextDate(cadence, from, customDays); ok {
		c.NextReminder = &next
	} else {
		c.NextReminder = nil
	}
	return s.persist(ctx, c, prefs)
}

// Snooze resolves the requested timestamp against the snap and
// birthday-priority rules, persists the new anchor, and reschedules.
func (s *Scheduler) Snooze(ctx context.Context, id string, requested time.Time, window time.Duration, prefs Preferences) (*Contact, error) {
	c, err := s.contact(id)
	if err != nil {
		return nil, err
	}
	resolved := ResolveSnooze(*c, requested, s.Clock.Now(), window)
	c.NextReminder = &resolved
	return s.persist(ctx, c, prefs)
}

// SetArchived freezes or thaws a contact. Archiving keeps the anchor but
// cancels pending triggers; unarchiving reschedules from the stored anchor.
func (s *Scheduler) SetArchived(ctx context.Context, id string, archived bool, prefs Preferences) (*Contact, error) {
	c, err := s.contact(id)
	if err != nil {
		return nil, err
	}
	c.Archived = archived
	if err := s.Store.UpdateContact(*c); err != nil {
		return nil, err
	}
	if archived {
		if err := s.Resolver.CancelFor(ctx, c.ID); err != nil {
			return nil, err
		}
		return c, nil
	}
	if _, err := s.Resolver.ScheduleReminder(ctx, *c, prefs); err != nil {
		return nil, err
	}
	return c, nil
}

// ImportBatch distributes a bulk import across each cadence period, then
// inserts and schedules every member. Ids are content hashes, so a member
// already in the store is a re-import of the same card; it keeps its
// existing anchor and is skipped rather than duplicated.
func (s *Scheduler) ImportBatch(ctx context.Context, batch []ImportContact, from time.Time, prefs Preferences) ([]Contact, error) {
	distributed := Distribute(batch, from)
	out := make([]Contact, 0, len(distributed))
	for _, d := range distributed {
		existing, err := s.Store.ContactByID(d.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			slog.Debug(config.MsgSkippedKnown,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyContact, d.ID,
			)
			continue
		}
		next := d.NextReminder
		c := Contact{
			ID:           d.ID,
			Name:         d.Name,
			Cadence:      d.Cadence,
			CustomDays:   d.CustomDays,
			Birthday:     d.Birthday,
			NextReminder: &next,
		}
		if err := s.Store.InsertContact(c); err != nil {
			return nil, err
		}
		if _, err := s.Resolver.ScheduleReminder(ctx, c, prefs); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// RescheduleAll re-resolves triggers for every active contact, typically
// after a notification-settings change. Contacts are independent; the loop
// is sequential but could fan out safely.
func (s *Scheduler) RescheduleAll(ctx context.Context, prefs Preferences) (int, error) {
	contacts, err := s.Store.ListContacts(false)
	if err != nil {
		return 0, err
	}
	slog.Info(config.MsgRescheduleAll,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(contacts),
	)
	for _, c := range contacts {
		if _, err := s.Resolver.ScheduleReminder(ctx, c, prefs); err != nil {
			return 0, err
		}
	}
	return len(contacts), nil
}

// DueToday returns the active contacts whose reminder recurs today or whose
// birthday is today, feeding the daily digest.
func (s *Scheduler) DueToday(ctx context.Context) ([]Contact, error) {
	contacts, err := s.Store.ListContacts(false)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	var due []Contact
	for _, c := range contacts {
		if DueOn(c, now) || (c.Birthday != nil && c.Birthday.IsToday(now)) {
			due = append(due, c)
		}
	}
	return due, nil
}

func (s *Scheduler) contact(id string) (*Contact, error) {
	c, err := s.Store.ContactByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContactMissing
	}
	return c, nil
}

func (s *Scheduler) persist(ctx context.Context, c *Contact, prefs Preferences) (*Contact, error) {
	if err := s.Store.UpdateContact(*c); err != nil {
		return nil, err
	}
	if _, err := s.Resolver.ScheduleReminder(ctx, *c, prefs); err != nil {
		return nil, err
	}
	return c, nil
}
