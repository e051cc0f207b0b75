package addressbook

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// ErrInvalidFormat is matched by every validation failure (errors.Is).
var ErrInvalidFormat = errors.New(config.ErrInvalidFormat)

var phoneRe = regexp.MustCompile(config.PhonePattern)

// FormatError reports a rejected phone or birthday value.
type FormatError struct {
	Field  string // config.FieldPhone or config.FieldBirthday
	Value  string
	Reason string // Human-readable, e.g. config.ErrPhoneDigits
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Value)
}

// Unwrap exposes ErrInvalidFormat to errors.Is.
func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

// Name identifies a contact and is the AddressBook key.
// It is stored verbatim.
type Name struct {
	value string
}

// NewName wraps value without validation.
func NewName(value string) Name {
	return Name{value: value}
}

func (n Name) String() string { return n.value }

// Phone holds exactly ten decimal digits.
type Phone struct {
	value string
}

// NewPhone validates value and wraps it.
func NewPhone(value string) (Phone, error) {
	if err := validatePhone(value); err != nil {
		return Phone{}, err
	}
	return Phone{value: value}, nil
}

func (p Phone) String() string { return p.value }

// validatePhone is the single phone rule, shared by NewPhone and Record mutators.
func validatePhone(value string) error {
	if !phoneRe.MatchString(value) {
		return &FormatError{Field: config.FieldPhone, Value: value, Reason: config.ErrPhoneDigits}
	}
	return nil
}

// Birthday is a calendar date given as DD.MM.YYYY.
// The date is parsed once; the original text is kept for display.
type Birthday struct {
	text string
	date time.Time
}

// NewBirthday parses value with config.BirthdayLayout.
// Out-of-range dates such as 31.02.2000 are rejected.
func NewBirthday(value string) (Birthday, error) {
	d, err := parseBirthday(value)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{text: value, date: d}, nil
}

// Date returns the parsed date at UTC midnight.
func (b Birthday) Date() time.Time { return b.date }

func (b Birthday) String() string { return b.text }

func parseBirthday(value string) (time.Time, error) {
	d, err := time.Parse(config.BirthdayLayout, value)
	if err != nil {
		return time.Time{}, &FormatError{Field: config.FieldBirthday, Value: value, Reason: config.ErrBirthdayFormat}
	}
	return d, nil
}
