package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	src := "Name,PRN,Email,Mobile,Year\nA,1,a@x.com,111,FE\nB,2,b@x.com,222,SE\n"
	headers, rows, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "prn", "email", "mobile", "year"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["name"])
	assert.Equal(t, "2", rows[1]["prn"])
}

func TestParseCSVRaggedRows(t *testing.T) {
	// Spreadsheet exports truncate trailing empty cells; short rows
	// must not fail, missing columns read as empty.
	src := "name,prn,email,mobile,year\nA,1\n"
	_, rows, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0]["name"])
	assert.Equal(t, "", rows[0]["year"])
}

func TestParseCSVStripsBOM(t *testing.T) {
	src := "\uFEFFname,prn,email,mobile,year\nA,1,,,\n"
	headers, _, err := ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "name", headers[0])
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}
