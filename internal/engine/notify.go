package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tartampluch/go-cadence/internal/config"
)

// DigestID tags digest notifications in the delivery registry so they are
// cancelled and rescheduled as one unit, like a contact's own triggers.
const DigestID = "daily-digest"

// NotificationRequest is one delivery request submitted to the collaborator.
type NotificationRequest struct {
	// ContactID tags the request so a later scheduling pass can cancel it.
	ContactID string
	Title     string
	Body      string
	TriggerAt time.Time
}

// ScheduledNotification is one pending entry in the delivery registry.
type ScheduledNotification struct {
	ID        string
	ContactID string
	Title     string
	Body      string
	TriggerAt time.Time
}

// Delivery is the notification-delivery collaborator. The engine is the
// sole owner of when to call it; the implementation is the sole owner of
// how delivery happens. Implementations must tolerate concurrent cancel and
// schedule calls for distinct contact ids.
type Delivery interface {
	ListScheduled(ctx context.Context) ([]ScheduledNotification, error)
	Cancel(ctx context.Context, id string) error
	Schedule(ctx context.Context, req NotificationRequest) (string, error)
}

// Preferences are the user's notification settings: how many times per day
// to be prompted, and at which wall-clock times. Malformed entries are
// recovered locally, never surfaced as errors.
type Preferences struct {
	Frequency int      // slots per day, 1..3
	Times     []string // "HH:MM" entries, nominally one per slot
}

// DefaultPreferences returns a single morning slot.
func DefaultPreferences() Preferences {
	return Preferences{Frequency: config.MinNotifyFrequency, Times: []string{config.DefaultSlotTime}}
}

// Profile carries the platform-dependent digest formatting: how many names
// fit in a banner before truncating to "and N more".
type Profile struct {
	NameCap int
}

var (
	// CompactProfile matches the platform family with the tighter banner.
	CompactProfile = Profile{NameCap: config.CompactProfileNameCap}
	// RegularProfile matches the roomier platform family.
	RegularProfile = Profile{NameCap: config.RegularProfileNameCap}
)

// Texter renders human-readable notification text. internal/text provides a
// localized implementation; a nil Texter falls back to built-in English.
type Texter interface {
	NotifTitle(name string) string
	NotifBody(name string) string
	DigestTitle(count int) string
	DigestBody(names string, more int) string
}

// Resolver turns one due timestamp into one or more concrete future trigger
// instants and submits them to the delivery collaborator. Scheduling is
// idempotent per contact: every pass cancels that contact's pending
// triggers before emitting new ones. Concurrent calls for the same contact
// id must be serialized by the caller.
type Resolver struct {
	Clock    Clock
	Delivery Delivery
	Profile  Profile
	Texts    Texter

	// Permitted reports whether the OS notification permission is granted.
	// Nil means granted. Denial turns scheduling into a silent no-op, not
	// an error.
	Permitted func() bool
}

// ScheduleReminder resolves and submits the trigger plan for one contact.
// It returns the identifier of the first submitted request, or "" when
// nothing was scheduled (archived contact, missing permission, or no due
// date without a birthday override).
func (r *Resolver) ScheduleReminder(ctx context.Context, c Contact, prefs Preferences) (string, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompNotify,
		config.LogKeyContact, c.ID,
	)

	if err := r.cancelFor(ctx, c.ID); err != nil {
		return "", err
	}
	if c.Archived {
		log.Debug(config.MsgNotifSkipped, config.LogKeyValue, "archived")
		return "", nil
	}
	if !r.permitted() {
		log.Debug(config.MsgNotifSkipped, config.LogKeyValue, "permission denied")
		return "", nil
	}

	now := r.Clock.Now()
	birthdayToday := c.Birthday != nil && c.Birthday.IsToday(now)
	if birthdayToday {
		log.Info(config.MsgBdayToday, config.LogKeyName, c.DisplayName())
	}
	if c.NextReminder == nil && !birthdayToday {
		log.Debug(config.MsgNotifSkipped, config.LogKeyValue, "no due date")
		return "", nil
	}

	// Candidate start day: max(today, due day) normally. A birthday today
	// starts the walk today even when the cadence anchor is further out;
	// the anchor itself is never pulled earlier.
	startDay := StartOfDay(now)
	if !birthdayToday && c.NextReminder != nil {
		if due := StartOfDay(*c.NextReminder); due.After(startDay) {
			startDay = due
		}
	}

	triggers := collectSlots(startDay, now, prefs)

	name := c.DisplayName()
	title := r.texts().NotifTitle(name)
	body := r.texts().NotifBody(name)

	firstID := ""
	for _, at := range triggers {
		id, err := r.Delivery.Schedule(ctx, NotificationRequest{
			ContactID: c.ID,
			Title:     title,
			Body:      body,
			TriggerAt: at,
		})
		if err != nil {
			return "", err
		}
		if firstID == "" {
			firstID = id
		}
	}

	log.Debug(config.MsgNotifPlanned,
		config.LogKeySlots, len(triggers),
		config.LogKeyFrequency, prefs.Frequency,
	)
	return firstID, nil
}

// ScheduleDigest submits one trigger set covering every contact in due,
// formatted per the platform profile: names up to the cap, then
// "and N more". Archived contacts are dropped; an empty digest cancels any
// pending one and schedules nothing.
func (r *Resolver) ScheduleDigest(ctx context.Context, due []Contact, prefs Preferences) (string, error) {
	if err := r.cancelFor(ctx, DigestID); err != nil {
		return "", err
	}
	if !r.permitted() {
		return "", nil
	}

	var names []string
	for _, c := range due {
		if !c.Archived {
			names = append(names, c.DisplayName())
		}
	}
	if len(names) == 0 {
		return "", nil
	}

	nameCap := r.Profile.NameCap
	if nameCap < 1 {
		nameCap = config.RegularProfileNameCap
	}
	shown := names
	more := 0
	if len(names) > nameCap {
		shown = names[:nameCap]
		more = len(names) - nameCap
	}

	title := r.texts().DigestTitle(len(names))
	body := r.texts().DigestBody(strings.Join(shown, config.NameSeparator), more)

	now := r.Clock.Now()
	firstID := ""
	for _, at := range collectSlots(StartOfDay(now), now, prefs) {
		id, err := r.Delivery.Schedule(ctx, NotificationRequest{
			ContactID: DigestID,
			Title:     title,
			Body:      body,
			TriggerAt: at,
		})
		if err != nil {
			return "", err
		}
		if firstID == "" {
			firstID = id
		}
	}
	return firstID, nil
}

// CancelFor removes every pending trigger tagged with the contact id.
func (r *Resolver) CancelFor(ctx context.Context, contactID string) error {
	return r.cancelFor(ctx, contactID)
}

func (r *Resolver) cancelFor(ctx context.Context, contactID string) error {
	pending, err := r.Delivery.ListScheduled(ctx)
	if err != nil {
		return err
	}
	cancelled := 0
	for _, n := range pending {
		if n.ContactID != contactID {
			continue
		}
		if err := r.Delivery.Cancel(ctx, n.ID); err != nil {
			return err
		}
		cancelled++
	}
	if cancelled > 0 {
		slog.Debug(config.MsgNotifCancelled,
			config.LogKeyComponent, config.CompNotify,
			config.LogKeyContact, contactID,
			config.LogKeyCount, cancelled,
		)
	}
	return nil
}

func (r *Resolver) permitted() bool {
	return r.Permitted == nil || r.Permitted()
}

func (r *Resolver) texts() Texter {
	if r.Texts == nil {
		return fallbackTexter{}
	}
	return r.Texts
}

// collectSlots walks forward day by day from startDay, visiting the user's
// configured times-of-day in sorted order, and collects every slot strictly
// after now until the configured frequency is met. The walk is bounded at
// 366 days so it always terminates.
func collectSlots(startDay, now time.Time, prefs Preferences) []time.Time {
	slots := ParseSlotTimes(prefs.Times)
	want := prefs.Frequency
	if want < config.MinNotifyFrequency {
		want = config.MinNotifyFrequency
	}
	if want > config.MaxNotifyFrequency {
		want = config.MaxNotifyFrequency
	}

	var out []time.Time
	for d := 0; d < config.MaxTriggerWalkDays && len(out) < want; d++ {
		day := startDay.Add(time.Duration(d) * Day)
		for _, offset := range slots {
			if len(out) == want {
				break
			}
			if at := day.Add(offset); at.After(now) {
				out = append(out, at)
			}
		}
	}
	return out
}

// ParseSlotTimes converts "HH:MM" entries into sorted, deduplicated offsets
// from midnight. Malformed entries are dropped; when nothing parses, the
// single default 09:00 slot is used.
func ParseSlotTimes(times []string) []time.Duration {
	var offsets []time.Duration
	seen := make(map[time.Duration]bool)
	for _, s := range times {
		t, err := time.Parse(config.TimeFormatSlot, strings.TrimSpace(s))
		if err != nil {
			slog.Debug(config.ErrTimeOfDay,
				config.LogKeyComponent, config.CompNotify,
				config.LogKeyValue, s,
			)
			continue
		}
		offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
		if !seen[offset] {
			seen[offset] = true
			offsets = append(offsets, offset)
		}
	}
	if len(offsets) == 0 {
		t, _ := time.Parse(config.TimeFormatSlot, config.DefaultSlotTime)
		return []time.Duration{time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// fallbackTexter renders built-in English text when no localizer is wired.
type fallbackTexter struct{}

func (fallbackTexter) NotifTitle(name string) string { return fmt.Sprintf(config.FallbackNotifTitle, name) }
func (fallbackTexter) NotifBody(name string) string  { return fmt.Sprintf(config.FallbackNotifBody, name) }
func (fallbackTexter) DigestTitle(count int) string {
	return fmt.Sprintf(config.FallbackDigestTitle, count)
}
func (fallbackTexter) DigestBody(names string, more int) string {
	if more > 0 {
		return fmt.Sprintf(config.FallbackDigestMore, names, more)
	}
	return names
}
