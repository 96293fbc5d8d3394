// Package roster implements the roster import pipeline: schema
// validation of a tabular roster, row filtering and normalization,
// identifier payload pre-generation, and the sequential per-row
// reconciliation against already-persisted attendees for the same
// event.  The pipeline is pure up to the Importer, which is the only
// part that touches a store.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mihirt/rollcall/internal/codec"
)

// RequiredColumns is the case-insensitive column set a roster must
// carry.  Extra columns are ignored.
var RequiredColumns = []string{"name", "prn", "email", "mobile", "year"}

// SchemaError reports which required columns a roster is missing.  No
// rows are processed when it is returned; the operator must fix the
// input, retrying the same file cannot help.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("roster: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ErrEmptyImport is returned when no usable rows remain after
// filtering.  Blank trailing rows are normal in exported spreadsheets,
// a roster consisting only of them is not.
var ErrEmptyImport = errors.New("roster: no usable rows")

// Row is one raw roster row keyed by lower-cased column name.
type Row map[string]string

// Entry is a normalized roster row ready for reconciliation.  Payload
// is derived from PRN before any persistence begins, so callers can
// preview the scannable codes prior to committing an import.  An empty
// Payload marks a PRN that could not be encoded; such entries are never
// persisted.
type Entry struct {
	Name    string
	PRN     string
	Email   string
	Mobile  string
	Year    string
	Payload string
}

// ValidateHeaders checks that every required column is present,
// case-insensitively.  It returns a *SchemaError naming the missing
// columns, in RequiredColumns order, when any are absent.
func ValidateHeaders(headers []string) error {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[strings.ToLower(strings.TrimSpace(h))] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Normalize validates the header set and turns raw rows into entries:
//
//   - rows missing name or prn are dropped silently (blank trailing
//     rows, not an error),
//   - every field is trimmed of surrounding whitespace,
//   - duplicate PRNs within the batch are dropped, first occurrence
//     wins, so one import can never race itself into two rows with the
//     same PRN,
//   - the scannable payload is derived from the PRN for every retained
//     row, before any persistence.  A PRN that cannot be encoded keeps
//     its entry with an empty Payload; the importer counts such rows as
//     failed rather than dropping operator-supplied data silently.
//
// It returns ErrEmptyImport when nothing survives filtering and a
// *SchemaError when required columns are absent.
func Normalize(headers []string, rows []Row) ([]Entry, error) {
	if err := ValidateHeaders(headers); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		e := Entry{
			Name:   strings.TrimSpace(row["name"]),
			PRN:    strings.TrimSpace(row["prn"]),
			Email:  strings.TrimSpace(row["email"]),
			Mobile: strings.TrimSpace(row["mobile"]),
			Year:   strings.TrimSpace(row["year"]),
		}
		if e.Name == "" || e.PRN == "" {
			continue
		}
		if seen[e.PRN] {
			continue
		}
		// An encode failure leaves Payload empty; the row still counts
		// toward the import report as a failure.
		if payload, err := codec.Encode(e.PRN); err == nil {
			e.Payload = payload
		}
		seen[e.PRN] = true
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyImport
	}
	return entries, nil
}
