// Package table holds the in-memory transaction dataset and the pure
// filter, sort, pagination and summary operations applied to it.
package table

import "sync"

// Record is one transaction row: column name to string value, with the
// column order of the source preserved. Missing cells read as "".
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord pairs columns with values positionally. Values beyond the
// column list are dropped; missing values are stored as "".
func NewRecord(columns, values []string) Record {
	r := Record{
		keys:   make([]string, 0, len(columns)),
		values: make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		if _, dup := r.values[col]; !dup {
			r.keys = append(r.keys, col)
		}
		if i < len(values) {
			r.values[col] = values[i]
		} else {
			r.values[col] = ""
		}
	}
	return r
}

// RecordOf builds a record from alternating column/value pairs. A trailing
// column without a value gets "".
func RecordOf(pairs ...string) Record {
	cols := make([]string, 0, (len(pairs)+1)/2)
	vals := make([]string, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		cols = append(cols, pairs[i])
		if i+1 < len(pairs) {
			vals = append(vals, pairs[i+1])
		}
	}
	return NewRecord(cols, vals)
}

// Get returns the value for col, or "" when the column is absent.
func (r Record) Get(col string) string {
	return r.values[col]
}

// Lookup returns the value for col and whether the column exists.
func (r Record) Lookup(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Columns returns the record's column names in source order.
func (r Record) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Record) Len() int { return len(r.keys) }

// Store holds the ingested dataset. Records are never mutated after Load;
// every operation in this package produces a new slice.
type Store struct {
	mu         sync.RWMutex
	records    []Record
	columns    []string
	generation uint64
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Load replaces the dataset. The column list is taken from the first record
// and is not re-derived afterwards. Loading zero records is valid and yields
// an empty, displayable table.
func (s *Store) Load(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]Record, len(records))
	copy(s.records, records)
	s.columns = nil
	if len(records) > 0 {
		s.columns = records[0].Columns()
	}
	s.generation++
}

// All returns the records in ingestion order. The returned slice is a copy;
// callers may reorder it freely.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Columns returns the column names inferred at load time.
func (s *Store) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Generation increases on every Load. Derived views key their caches on it.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
