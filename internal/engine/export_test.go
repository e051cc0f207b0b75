package engine_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

func TestExportVCards_ReloadsIntoSameBook(t *testing.T) {
	book := addressbook.New()

	john := addressbook.NewRecord("John Doe")
	require.NoError(t, john.AddPhone("0123456789"))
	require.NoError(t, john.AddPhone("5555555555"))
	require.NoError(t, john.AddBirthday("29.02.2000"))
	book.AddRecord(john)
	book.AddRecord(addressbook.NewRecord("Jane"))

	var buf bytes.Buffer
	require.NoError(t, engine.ExportVCards(&buf, book))

	out := buf.String()
	assert.Contains(t, out, "VERSION:4.0")
	assert.Contains(t, out, "FN:John Doe")
	assert.Contains(t, out, "BDAY:2000-02-29")

	reloaded, stats, err := (&engine.Loader{}).Import(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Zero(t, stats.SkippedPhones)

	got, ok := reloaded.Find("John Doe")
	require.True(t, ok)
	assert.Equal(t, john.String(), got.String(), "phones keep their order")
	bday, ok := got.Birthday()
	require.True(t, ok)
	assert.Equal(t, "29.02.2000", bday.String())

	records := reloaded.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "Jane", records[1].Name().String(), "book order is preserved")
}

func TestExportVCards_EmptyBook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, engine.ExportVCards(&buf, addressbook.New()))
	assert.Zero(t, buf.Len())
}
