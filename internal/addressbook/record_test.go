package addressbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
)

func phoneStrings(r *addressbook.Record) []string {
	var out []string
	for _, p := range r.Phones() {
		out = append(out, p.String())
	}
	return out
}

func TestRecord_AddPhone(t *testing.T) {
	r := addressbook.NewRecord("John")

	require.NoError(t, r.AddPhone("1234567890"))
	require.NoError(t, r.AddPhone("5555555555"))
	require.NoError(t, r.AddPhone("1234567890"))

	assert.Equal(t, []string{"1234567890", "5555555555", "1234567890"}, phoneStrings(r), "duplicates are kept in insertion order")

	err := r.AddPhone("12345")
	assert.ErrorIs(t, err, addressbook.ErrInvalidFormat)
	assert.Len(t, r.Phones(), 3, "an invalid phone must not be stored")
}

func TestRecord_RemovePhone(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))
	require.NoError(t, r.AddPhone("5555555555"))
	require.NoError(t, r.AddPhone("1234567890"))

	r.RemovePhone("1234567890")
	assert.Equal(t, []string{"5555555555"}, phoneStrings(r), "every equal phone is removed")

	// Second call and unknown values are no-ops.
	r.RemovePhone("1234567890")
	r.RemovePhone("0000000000")
	r.RemovePhone("not a phone")
	assert.Equal(t, []string{"5555555555"}, phoneStrings(r))
}

func TestRecord_EditPhone(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))
	require.NoError(t, r.AddPhone("5555555555"))

	require.NoError(t, r.EditPhone("1234567890", "1112223333"))

	_, found := r.FindPhone("1234567890")
	assert.False(t, found)

	p, found := r.FindPhone("1112223333")
	require.True(t, found)
	assert.Equal(t, "1112223333", p.String())
	assert.Equal(t, []string{"5555555555", "1112223333"}, phoneStrings(r), "the new phone is appended")
}

// TestRecord_EditPhone_InvalidNewKeepsOld pins a deliberate behavior change:
// the new number is validated before the old one is removed, so a failed edit
// leaves the record untouched instead of silently losing the old number.
func TestRecord_EditPhone_InvalidNewKeepsOld(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))

	err := r.EditPhone("1234567890", "12-34")
	assert.ErrorIs(t, err, addressbook.ErrInvalidFormat)

	_, found := r.FindPhone("1234567890")
	assert.True(t, found, "old phone must survive a rejected edit")
	assert.Len(t, r.Phones(), 1)
}

func TestRecord_EditPhone_MissingOldAppends(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))

	require.NoError(t, r.EditPhone("9999999999", "1112223333"))
	assert.Equal(t, []string{"1234567890", "1112223333"}, phoneStrings(r))
}

func TestRecord_FindPhone_NoMutation(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))

	_, found := r.FindPhone("0000000000")
	assert.False(t, found)
	assert.Len(t, r.Phones(), 1)
}

func TestRecord_Phones_ReturnsCopy(t *testing.T) {
	r := addressbook.NewRecord("John")
	require.NoError(t, r.AddPhone("1234567890"))

	phones := r.Phones()
	phones[0] = addressbook.Phone{}

	assert.Equal(t, []string{"1234567890"}, phoneStrings(r))
}

func TestRecord_AddBirthday(t *testing.T) {
	r := addressbook.NewRecord("John")

	_, ok := r.Birthday()
	assert.False(t, ok, "a new record has no birthday")

	require.NoError(t, r.AddBirthday("15.01.1990"))
	require.NoError(t, r.AddBirthday("16.02.1991"))

	b, ok := r.Birthday()
	require.True(t, ok)
	assert.Equal(t, "16.02.1991", b.String(), "a second call overwrites")

	err := r.AddBirthday("1991-02-16")
	assert.ErrorIs(t, err, addressbook.ErrInvalidFormat)

	b, _ = r.Birthday()
	assert.Equal(t, "16.02.1991", b.String(), "a rejected value keeps the previous birthday")
}

func TestRecord_String(t *testing.T) {
	r := addressbook.NewRecord("John")
	assert.Equal(t, "Contact name: John, phones: ", r.String())

	require.NoError(t, r.AddPhone("1234567890"))
	require.NoError(t, r.AddPhone("5555555555"))
	assert.Equal(t, "Contact name: John, phones: 1234567890; 5555555555", r.String())
}
