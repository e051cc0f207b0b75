package addressbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
)

// MockClock controls "today" for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func newRecord(t *testing.T, name, birthday string, phones ...string) *addressbook.Record {
	t.Helper()
	r := addressbook.NewRecord(name)
	for _, p := range phones {
		require.NoError(t, r.AddPhone(p))
	}
	if birthday != "" {
		require.NoError(t, r.AddBirthday(birthday))
	}
	return r
}

func bookAt(now time.Time) *addressbook.AddressBook {
	b := addressbook.New()
	b.Clock = MockClock{CurrentTime: now}
	return b
}

func TestAddressBook_AddFindDelete(t *testing.T) {
	b := addressbook.New()
	john := newRecord(t, "John", "", "1234567890")
	b.AddRecord(john)

	got, ok := b.Find("John")
	require.True(t, ok)
	assert.Same(t, john, got)

	_, ok = b.Find("Jane")
	assert.False(t, ok, "a miss is not an error")

	b.Delete("Jane")
	assert.Equal(t, 1, b.Len(), "deleting an unknown name leaves the book unchanged")

	b.Delete("John")
	_, ok = b.Find("John")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Records())
}

func TestAddressBook_AddRecord_Overwrites(t *testing.T) {
	b := addressbook.New()
	b.AddRecord(newRecord(t, "John", "", "1234567890"))
	b.AddRecord(newRecord(t, "Jane", ""))
	second := newRecord(t, "John", "", "5555555555")
	b.AddRecord(second)

	assert.Equal(t, 2, b.Len())

	got, ok := b.Find("John")
	require.True(t, ok)
	assert.Same(t, second, got, "second record replaces the first, no merge")
	_, found := got.FindPhone("1234567890")
	assert.False(t, found)

	records := b.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "John", records[0].Name().String(), "a replaced record keeps its position")
	assert.Equal(t, "Jane", records[1].Name().String())
}

func TestUpcomingBirthdays_Scenarios(t *testing.T) {
	// 2024-01-01 is a Monday.
	monday := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		birthday string
		want     string // empty means excluded
	}{
		{"SevenDaysOutIsIncluded", monday, "08.01.1985", "2024.01.08"},
		{"EightDaysOutIsExcluded", monday, "09.01.1985", ""},
		{"SaturdayShiftsToMonday", monday, "06.01.1990", "2024.01.08"},
		{"SundayShiftsToMonday", monday, "07.01.1990", "2024.01.08"},
		{"TodayIsIncluded", monday, "01.01.2000", "2024.01.01"},
		{"PastThisYearUsesNextYear", time.Date(2024, 12, 28, 12, 0, 0, 0, time.UTC), "02.01.1990", "2025.01.02"},
		{"PastThisYearFarAway", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), "01.01.1990", ""},
		{"SaturdayTodayShiftsForward", time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC), "06.01.1990", "2024.01.08"},
		{"SundaySevenDaysOutShiftsOutOfWindow", time.Date(2024, 1, 7, 8, 0, 0, 0, time.UTC), "14.01.1990", ""},
		{"LeaplingInCommonYear", time.Date(2025, 2, 27, 8, 0, 0, 0, time.UTC), "29.02.2000", "2025.03.03"},
		{"LeaplingInLeapYear", time.Date(2024, 2, 26, 8, 0, 0, 0, time.UTC), "29.02.2000", "2024.02.29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bookAt(tt.now)
			b.AddRecord(newRecord(t, "John", tt.birthday))

			got := b.UpcomingBirthdays()
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "John", got[0].Name)
			assert.Equal(t, tt.want, got[0].CongratulationDate)
			assert.Equal(t, tt.want, got[0].Date.Format("2006.01.02"))
		})
	}
}

func TestUpcomingBirthdays_OrderAndSkips(t *testing.T) {
	b := bookAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b.AddRecord(newRecord(t, "Zoe", "05.01.1980"))
	b.AddRecord(newRecord(t, "NoBirthday", "", "1234567890"))
	b.AddRecord(newRecord(t, "Adam", "02.01.1970"))
	b.AddRecord(newRecord(t, "Later", "20.03.1970"))

	got := b.UpcomingBirthdays()

	assert.Equal(t, []addressbook.UpcomingBirthday{
		{Name: "Zoe", CongratulationDate: "2024.01.05", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{Name: "Adam", CongratulationDate: "2024.01.02", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}, got, "insertion order is kept and records without a birthday are skipped")
}

func TestUpcomingBirthdays_UsesClockLocalDate(t *testing.T) {
	// 23:30 on Jan 1 in UTC+5 is still Jan 1 for the user.
	loc := time.FixedZone("UTC+5", 5*3600)
	b := bookAt(time.Date(2024, 1, 1, 23, 30, 0, 0, loc))
	b.AddRecord(newRecord(t, "John", "08.01.1990"))

	got := b.UpcomingBirthdays()
	require.Len(t, got, 1)
	assert.Equal(t, "2024.01.08", got[0].CongratulationDate)
}

func TestUpcomingBirthdays_EmptyBook(t *testing.T) {
	got := addressbook.New().UpcomingBirthdays()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
