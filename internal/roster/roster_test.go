package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeadersCaseInsensitive(t *testing.T) {
	err := ValidateHeaders([]string{"Name", "PRN", "Email", "MOBILE", "Year"})
	assert.NoError(t, err)
}

func TestValidateHeadersNamesMissingColumns(t *testing.T) {
	err := ValidateHeaders([]string{"name", "prn", "email"})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"mobile", "year"}, schemaErr.Missing)
}

func TestValidateHeadersIgnoresExtraColumns(t *testing.T) {
	err := ValidateHeaders([]string{"name", "prn", "email", "mobile", "year", "notes", "section"})
	assert.NoError(t, err)
}

var fullHeaders = []string{"name", "prn", "email", "mobile", "year"}

func TestNormalizeTrimsFields(t *testing.T) {
	entries, err := Normalize(fullHeaders, []Row{
		{"name": "  A  ", "prn": " 0042 ", "email": " a@x.com ", "mobile": " 1 ", "year": " FE "},
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "A", e.Name)
	assert.Equal(t, "0042", e.PRN)
	assert.Equal(t, "a@x.com", e.Email)
	assert.Equal(t, "1", e.Mobile)
	assert.Equal(t, "FE", e.Year)
	assert.Equal(t, "0042", e.Payload)
}

func TestNormalizeDropsRowsMissingNameOrPRN(t *testing.T) {
	entries, err := Normalize(fullHeaders, []Row{
		{"name": "A", "prn": "1", "email": "a@x.com", "mobile": "1", "year": "FE"},
		{"name": "", "prn": "2"},       // blank name
		{"name": "C", "prn": "   "},    // blank prn
		{},                             // trailing empty row
		{"name": "D", "prn": "4"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].PRN)
	assert.Equal(t, "4", entries[1].PRN)
}

func TestNormalizeKeepsUnencodablePRNWithoutPayload(t *testing.T) {
	// A PRN rejected by the payload codec is not dropped: it stays in
	// the batch with an empty payload so the import report can count it.
	entries, err := Normalize(fullHeaders, []Row{
		{"name": "A", "prn": "1"},
		{"name": "B", "prn": "bad\x01prn"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].Payload)
	assert.Equal(t, "bad\x01prn", entries[1].PRN)
	assert.Empty(t, entries[1].Payload)
}

func TestNormalizeDedupsWithinBatchKeepingFirst(t *testing.T) {
	entries, err := Normalize(fullHeaders, []Row{
		{"name": "First", "prn": "1"},
		{"name": "Second", "prn": "1"}, // same prn, later row loses
		{"name": "Other", "prn": "2"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "First", entries[0].Name)
	assert.Equal(t, "Other", entries[1].Name)
}

func TestNormalizeEmptyImport(t *testing.T) {
	_, err := Normalize(fullHeaders, []Row{
		{"name": "", "prn": ""},
		{},
	})
	assert.ErrorIs(t, err, ErrEmptyImport)

	_, err = Normalize(fullHeaders, nil)
	assert.ErrorIs(t, err, ErrEmptyImport)
}

func TestNormalizePregeneratesNothing(t *testing.T) {
	// Same PRN in two separate batches must derive the same payload.
	a, err := Normalize(fullHeaders, []Row{{"name": "A", "prn": "X-01"}})
	require.NoError(t, err)
	b, err := Normalize(fullHeaders, []Row{{"name": "B", "prn": "X-01"}})
	require.NoError(t, err)
	assert.Equal(t, a[0].Payload, b[0].Payload)
}
