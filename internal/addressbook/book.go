package addressbook

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// UpcomingBirthday is one entry of AddressBook.UpcomingBirthdays.
type UpcomingBirthday struct {
	Name string `json:"name"`

	// CongratulationDate is Date formatted as YYYY.MM.DD.
	CongratulationDate string `json:"congratulation_date"`

	// Date is the weekend-adjusted day the greeting is due (UTC midnight).
	Date time.Time `json:"-"`
}

// AddressBook maps contact names to records.
// It keeps insertion order for iteration and is not safe for concurrent use.
type AddressBook struct {
	Clock Clock // Source of "today"; defaults to RealClock.

	records map[string]*Record
	order   []string
}

// New returns an empty address book using the real clock.
func New() *AddressBook {
	return &AddressBook{
		Clock:   RealClock{},
		records: make(map[string]*Record),
	}
}

// AddRecord stores r under its name. An existing record with the same name
// is replaced and keeps its position.
func (b *AddressBook) AddRecord(r *Record) {
	key := r.name.value
	if _, exists := b.records[key]; exists {
		slog.Debug(config.MsgRecordReplaced,
			config.LogKeyComponent, config.CompBook,
			config.LogKeyName, key)
	} else {
		b.order = append(b.order, key)
		slog.Debug(config.MsgRecordAdded,
			config.LogKeyComponent, config.CompBook,
			config.LogKeyName, key)
	}
	b.records[key] = r
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name, if any.
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	for i, k := range b.order {
		if k == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	slog.Debug(config.MsgRecordDeleted,
		config.LogKeyComponent, config.CompBook,
		config.LogKeyName, name)
}

// Len returns the number of stored records.
func (b *AddressBook) Len() int { return len(b.records) }

// Records returns the stored records in insertion order.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.records[k])
	}
	return out
}

// UpcomingBirthdays lists the contacts to congratulate within the next
// config.UpcomingWindowDays days, inclusive, in insertion order.
// Records without a birthday are skipped.
func (b *AddressBook) UpcomingBirthdays() []UpcomingBirthday {
	clock := b.Clock
	if clock == nil {
		clock = RealClock{}
	}
	today := dateOf(clock.Now())

	upcoming := []UpcomingBirthday{}
	for _, k := range b.order {
		r := b.records[k]
		bday, ok := r.Birthday()
		if !ok {
			slog.Debug(config.MsgSkippedNoBday,
				config.LogKeyComponent, config.CompBook,
				config.LogKeyName, k)
			continue
		}

		date := congratulationDate(today, bday.Date())
		days := int(date.Sub(today).Hours() / 24)
		if days > config.UpcomingWindowDays {
			continue
		}

		upcoming = append(upcoming, UpcomingBirthday{
			Name:               k,
			CongratulationDate: date.Format(config.CongratulationLayout),
			Date:               date,
		})
	}
	return upcoming
}

// congratulationDate projects birth onto today's year, rolls it to next year
// when already past, then moves Saturday and Sunday to the following Monday.
// Both arguments are UTC midnights. Feb 29 becomes Mar 1 in common years.
func congratulationDate(today, birth time.Time) time.Time {
	candidate := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}

	switch candidate.Weekday() {
	case time.Saturday:
		candidate = candidate.AddDate(0, 0, 2)
	case time.Sunday:
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}

// dateOf keeps the calendar date of t as seen in its own location, at UTC midnight.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
