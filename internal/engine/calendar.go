package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// CalendarBuilder renders congratulation dates as an iCalendar feed.
type CalendarBuilder struct {
	Clock addressbook.Clock // Source of DTSTAMP.

	// FormatSummary lets callers inject a localized event title.
	FormatSummary func(name string) string

	// ReminderTrigger is an optional ISO 8601 duration (e.g. "-PT9H") for a
	// VALARM, as returned by ParseReminder.
	ReminderTrigger string
}

// Build returns one all-day VEVENT per entry. An empty list yields
// config.StubVCalendar so subscribers still receive a valid feed.
func (c *CalendarBuilder) Build(upcoming []addressbook.UpcomingBirthday) ([]byte, error) {
	if len(upcoming) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	clock := c.Clock
	if clock == nil {
		clock = addressbook.RealClock{}
	}
	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(clock.Now().UTC())

	for _, u := range upcoming {
		summary := fmt.Sprintf(config.FallbackSummary, u.Name)
		if c.FormatSummary != nil {
			summary = c.FormatSummary(u.Name)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, eventUID(u))
		event.Props.SetText(config.PropSummary, summary)
		event.Props.Set(stamp)

		start := ical.NewProp(config.PropDTStart)
		start.SetDate(u.Date)
		event.Props.Set(start)

		if c.ReminderTrigger != "" {
			addAlarm(event, c.ReminderTrigger, summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyUpcoming, len(upcoming),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// eventUID is stable across refreshes for the same contact and date.
func eventUID(u addressbook.UpcomingBirthday) string {
	input := fmt.Sprintf(config.FormatHashInput, u.Name, u.CongratulationDate, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value keeps the encoder from adding VALUE=TEXT.
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = trigger
	alarm.Props.Set(prop)

	event.Children = append(event.Children, alarm)
}

// ParseReminder validates an ISO 8601 duration for use as
// CalendarBuilder.ReminderTrigger and returns it upper-cased.
// An empty value disables alarms.
func ParseReminder(value string) (string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return "", nil
	}
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = value
	if _, err := prop.Duration(); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrReminder, err)
	}
	return value, nil
}
