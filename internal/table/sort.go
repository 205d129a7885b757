package table

import "sort"

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortConfig selects the sort column. An empty Column means unsorted:
// ingestion order is kept.
type SortConfig struct {
	Column    string
	Direction Direction
}

// Toggle returns the config after the user selects column: the same column
// flips direction, a different column starts ascending.
func (c SortConfig) Toggle(column string) SortConfig {
	if c.Column == column && c.Direction == Asc {
		return SortConfig{Column: column, Direction: Desc}
	}
	return SortConfig{Column: column, Direction: Asc}
}

// Sort returns records ordered by cfg. It never mutates the input; with no
// column it returns the input unchanged. Ties keep their relative order.
func Sort(records []Record, cfg SortConfig) []Record {
	if cfg.Column == "" {
		return records
	}
	// Parse once per row rather than once per comparison.
	keys := make([]Value, len(records))
	for i, r := range records {
		keys[i] = ParseValue(r.Get(cfg.Column))
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	desc := cfg.Direction == Desc
	sort.SliceStable(idx, func(i, j int) bool {
		c := CompareValues(keys[idx[i]], keys[idx[j]])
		if desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]Record, len(records))
	for i, k := range idx {
		sorted[i] = records[k]
	}
	return sorted
}
