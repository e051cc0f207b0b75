package addressbook

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Record is one contact: a name, an ordered list of phones and an optional birthday.
// Records are built detached and handed to an AddressBook, which then owns them.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record with no phones and no birthday.
func NewRecord(name string) *Record {
	return &Record{name: NewName(name)}
}

// Name returns the contact name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phones in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday reports the birthday, if one was set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates phone and appends it. Duplicates are kept.
func (r *Record) AddPhone(phone string) error {
	p, err := NewPhone(phone)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone drops every phone equal to phone. Missing values are ignored.
func (r *Record) RemovePhone(phone string) {
	kept := make([]Phone, 0, len(r.phones))
	for _, p := range r.phones {
		if p.value != phone {
			kept = append(kept, p)
		}
	}
	r.phones = kept
}

// EditPhone replaces oldPhone with newPhone.
//
// newPhone is validated first: on error the record is unchanged and oldPhone
// is still present. When oldPhone is absent newPhone is appended anyway.
func (r *Record) EditPhone(oldPhone, newPhone string) error {
	p, err := NewPhone(newPhone)
	if err != nil {
		return err
	}
	r.RemovePhone(oldPhone)
	r.phones = append(r.phones, p)
	return nil
}

// FindPhone returns the first phone equal to phone.
func (r *Record) FindPhone(phone string) (Phone, bool) {
	for _, p := range r.phones {
		if p.value == phone {
			return p, true
		}
	}
	return Phone{}, false
}

// AddBirthday validates text and sets it, replacing any previous birthday.
func (r *Record) AddBirthday(text string) error {
	b, err := NewBirthday(text)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// String renders "Contact name: <name>, phones: <p1>; <p2>".
func (r *Record) String() string {
	parts := make([]string, len(r.phones))
	for i, p := range r.phones {
		parts[i] = p.value
	}
	return fmt.Sprintf(config.RecordFormat, r.name.value, strings.Join(parts, config.PhoneJoiner))
}
