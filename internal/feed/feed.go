// Package feed renders the contact schedule as an iCalendar object so
// external calendar apps can subscribe to upcoming check-ins and
// birthdays.
package feed

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
)

// Summarizer localizes the event summaries embedded in the feed.
type Summarizer interface {
	EventReminder(name string) string
	EventBirthday(name string, age int, yearKnown bool) string
}

// Builder assembles the iCalendar feed from the contact list.
type Builder struct {
	Clock engine.Clock
	Texts Summarizer

	// WindowDays is the half-width of the reminder projection window
	// around now. Zero means config.DefaultFeedWindowDays.
	WindowDays int

	// AlarmTrigger is the ISO8601 duration for the display alarm
	// attached to each event. Empty means config.DefaultAlarmTrigger.
	AlarmTrigger string
}

// Build encodes every active contact's reminder occurrences and
// birthday events into a VCALENDAR. An empty contact list yields a
// minimal stub calendar so subscribers never see a parse error.
func (b *Builder) Build(contacts []engine.Contact) ([]byte, error) {
	now := b.Clock.Now()

	window := b.WindowDays
	if window <= 0 {
		window = config.DefaultFeedWindowDays
	}
	start := now.Add(-time.Duration(window) * engine.Day)
	end := now.Add(time.Duration(window) * engine.Day)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Dates below are interpreted in local time; the stamp alone is UTC.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())
	cal.Props.Set(dtStampProp)

	eventCount := 0
	for i := range contacts {
		c := &contacts[i]
		if c.Archived {
			continue
		}

		uidBase := uidBaseFor(c)
		name := c.DisplayName()

		for _, occ := range engine.OccurrencesInRange(*c, start, end) {
			e := b.reminderEvent(name, uidBase, occ)
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
			eventCount++
		}

		if c.Birthday != nil {
			for _, occ := range engine.BirthdayOccurrences(*c.Birthday, now) {
				e := b.birthdayEvent(name, uidBase, *c.Birthday, occ)
				e.Props.Set(dtStampProp)
				cal.Children = append(cal.Children, e.Component)
				eventCount++
			}
		}
	}

	if eventCount == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgFeedGenerated,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyCount, eventCount,
	)
	return buf.Bytes(), nil
}

// uidBaseFor derives a stable event UID prefix so regenerating the feed
// updates events in place instead of duplicating them.
func uidBaseFor(c *engine.Contact) string {
	input := fmt.Sprintf(config.FormatHashInput, c.ID, c.Cadence, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

func (b *Builder) reminderEvent(name, uidBase string, occ time.Time) *ical.Event {
	summary := b.summaryReminder(name)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID,
		fmt.Sprintf(config.FormatUIDDated, uidBase, occ.Format(config.DateFormatUID), config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)

	day := engine.StartOfDay(occ)
	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)

	b.addAlarm(event, summary)
	return event
}

func (b *Builder) birthdayEvent(name, uidBase string, bd engine.Birthday, occ time.Time) *ical.Event {
	age := 0
	if bd.YearKnown {
		age = bd.Age(occ.Year())
	}

	summary := b.summaryBirthday(name, age, bd.YearKnown)

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID,
		fmt.Sprintf(config.FormatUID, uidBase, occ.Year(), config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(occ)
	event.Props.Set(dtStartProp)

	b.addAlarm(event, summary)
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func (b *Builder) addAlarm(event *ical.Event, description string) {
	trigger := b.AlarmTrigger
	if trigger == "" {
		trigger = config.DefaultAlarmTrigger
	}

	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func (b *Builder) summaryReminder(name string) string {
	if b.Texts != nil {
		return b.Texts.EventReminder(name)
	}
	return fmt.Sprintf(config.FallbackEvtReminder, name)
}

func (b *Builder) summaryBirthday(name string, age int, yearKnown bool) string {
	if b.Texts != nil {
		return b.Texts.EventBirthday(name, age, yearKnown)
	}
	if yearKnown && age > 0 {
		return fmt.Sprintf(config.FallbackEvtBdayAge, name, age)
	}
	return fmt.Sprintf(config.FallbackEvtBirthday, name)
}
