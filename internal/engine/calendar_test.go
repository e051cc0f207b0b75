package engine_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

func upcomingFixture() []addressbook.UpcomingBirthday {
	return []addressbook.UpcomingBirthday{
		{Name: "John", CongratulationDate: "2024.01.08", Date: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
		{Name: "Jane", CongratulationDate: "2024.01.03", Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
}

func TestCalendarBuilder_Build(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock:         MockClock{CurrentTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
		FormatSummary: func(name string) string { return "Call " + name },
	}

	data, err := builder.Build(upcomingFixture())
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	summary, err := events[0].Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Call John", summary)

	start, err := events[0].DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), start)

	uid1, _ := events[0].Props.Text(config.PropUID)
	uid2, _ := events[1].Props.Text(config.PropUID)
	assert.NotEqual(t, uid1, uid2)
	assert.Contains(t, string(data), "DTSTAMP:20240101T090000Z")
	assert.NotContains(t, string(data), "BEGIN:VALARM")
}

func TestCalendarBuilder_StableUIDs(t *testing.T) {
	builder := &engine.CalendarBuilder{Clock: MockClock{CurrentTime: time.Now()}}

	first, err := builder.Build(upcomingFixture())
	require.NoError(t, err)
	second, err := builder.Build(upcomingFixture())
	require.NoError(t, err)

	uids := func(data []byte) []string {
		cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
		require.NoError(t, err)
		var out []string
		for _, e := range cal.Events() {
			uid, _ := e.Props.Text(config.PropUID)
			out = append(out, uid)
		}
		return out
	}
	assert.Equal(t, uids(first), uids(second))
}

func TestCalendarBuilder_FallbackSummaryAndAlarm(t *testing.T) {
	builder := &engine.CalendarBuilder{
		Clock:           MockClock{CurrentTime: time.Now()},
		ReminderTrigger: "-PT9H",
	}

	data, err := builder.Build(upcomingFixture()[:1])
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "SUMMARY:Congratulate John")
	assert.Contains(t, out, "BEGIN:VALARM")
	assert.Contains(t, out, "TRIGGER:-PT9H")
}

func TestParseReminder(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"-PT9H", "-PT9H", false},
		{" -pt15m ", "-PT15M", false},
		{"P1D", "P1D", false},
		{"9 hours", "", true},
		{"-PT9X", "", true},
	}

	for _, tt := range tests {
		got, err := engine.ParseReminder(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			assert.Contains(t, err.Error(), config.ErrReminder)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCalendarBuilder_Empty(t *testing.T) {
	data, err := (&engine.CalendarBuilder{}).Build(nil)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}
