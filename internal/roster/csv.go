package roster

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ErrNoHeader is returned when the CSV source is empty or its header
// row cannot be read.
var ErrNoHeader = errors.New("roster: csv has no header row")

// ParseCSV reads a roster from CSV.  The first record is the header
// row; headers are lower-cased so column matching is case-insensitive.
// Data rows may be ragged (spreadsheet exports often truncate trailing
// empty cells): short rows leave the remaining columns empty, extra
// cells beyond the header are ignored.  A UTF-8 BOM on the first header
// is stripped.
func ParseCSV(r io.Reader) ([]string, []Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, ErrNoHeader
	}
	headers := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
