package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jask/fraudscope/internal/errs"
	"github.com/jask/fraudscope/internal/table"
)

// ParseCSV reads a header row followed by data rows. Blank lines are
// skipped and every value stays a string. Rows with a different field count
// than the header, bad quoting and duplicate or blank header names are
// parse errors. An empty payload yields no records.
func ParseCSV(r io.Reader) ([]table.Record, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []table.Record{}, nil
	}
	if err != nil {
		return nil, errs.Parse("csv header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, errs.Parse("csv header", fmt.Errorf("column %d has no name", i+1))
		}
		if seen[h] {
			return nil, errs.Parse("csv header", fmt.Errorf("duplicate column %q", h))
		}
		seen[h] = true
		header[i] = h
	}

	var out []table.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Parse("csv row", err)
		}
		out = append(out, table.NewRecord(header, row))
	}
	if out == nil {
		out = []table.Record{}
	}
	return out, nil
}
