package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	cols := []string{"transaction_id", "charged_amount", "state", "fraud", "merchant_name"}
	return []Record{
		NewRecord(cols, []string{"1", "150.00", "declined", "1", "Coffee Shop"}),
		NewRecord(cols, []string{"2", "50.00", "declined", "0", "Book Store"}),
		NewRecord(cols, []string{"3", "9.99", "pending", "1", "coffee roasters"}),
		NewRecord(cols, []string{"4", "1200.00", "completed", "0", "Airline"}),
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Get("transaction_id")
	}
	return out
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		kind ValueKind
		num  float64
	}{
		{"150.00", Number, 150},
		{" 42 ", Number, 42},
		{"-3.5", Number, -3.5},
		{"1e3", Number, 1000},
		{"", Text, 0},
		{"12abc", Text, 0},
		{"NaN", Text, 0},
		{"declined", Text, 0},
	}
	for _, tc := range cases {
		v := ParseValue(tc.in)
		assert.Equal(t, tc.kind, v.Kind, "kind of %q", tc.in)
		assert.Equal(t, tc.in, v.Raw)
		if tc.kind == Number {
			assert.InDelta(t, tc.num, v.Num, 1e-9, "num of %q", tc.in)
		}
	}
}

func TestRecordPadsMissingValues(t *testing.T) {
	r := NewRecord([]string{"a", "b", "c"}, []string{"1"})
	assert.Equal(t, []string{"a", "b", "c"}, r.Columns())
	v, ok := r.Lookup("c")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, "", r.Get("missing"))
}

func TestStoreColumnsFromFirstRecord(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Columns())
	assert.Equal(t, 0, s.Len())

	s.Load(sampleRecords())
	assert.Equal(t, []string{"transaction_id", "charged_amount", "state", "fraud", "merchant_name"}, s.Columns())
	assert.Equal(t, 4, s.Len())
	gen := s.Generation()

	s.Load(nil)
	assert.Empty(t, s.Columns())
	assert.Empty(t, s.All())
	assert.Greater(t, s.Generation(), gen)
}

func TestStoreAllIsACopy(t *testing.T) {
	s := NewStore()
	s.Load(sampleRecords())
	all := s.All()
	all[0] = RecordOf("transaction_id", "x")
	assert.Equal(t, "1", s.All()[0].Get("transaction_id"))
}

func TestApplySimpleFilters(t *testing.T) {
	records := sampleRecords()
	fields := DefaultFields()

	cases := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{"empty matches all", FilterState{}, []string{"1", "2", "3", "4"}},
		{"search is case-insensitive across columns", FilterState{SearchTerm: "COFFEE"}, []string{"1", "3"}},
		{"search hits numeric text", FilterState{SearchTerm: "1200"}, []string{"4"}},
		{"status exact", FilterState{StatusFilter: "declined"}, []string{"1", "2"}},
		{"status is not substring", FilterState{StatusFilter: "decl"}, []string{}},
		{"fraud exact", FilterState{FraudFilter: "1"}, []string{"1", "3"}},
		{"all fields AND together", FilterState{SearchTerm: "coffee", StatusFilter: "declined", FraudFilter: "1"}, []string{"1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(records, tc.state, fields)
			assert.Equal(t, tc.want, ids(got))
			// Pure: same inputs, same output.
			assert.Equal(t, ids(got), ids(Apply(records, tc.state, fields)))
		})
	}
}

func TestFilterStateEdits(t *testing.T) {
	f := FilterState{}.Update(FieldSearch, "abc").Update(FieldFraud, "1")
	assert.Equal(t, FilterState{SearchTerm: "abc", FraudFilter: "1"}, f)
	assert.Equal(t, f, f.Update("bogus", "x"))

	q := QuickFilter(FieldStatus, "declined")
	assert.Equal(t, FilterState{StatusFilter: "declined"}, q)
	assert.True(t, QuickFilter(QuickClear, "").IsEmpty())
	assert.Equal(t, "declined", q.Active()[FieldStatus])
}

func TestSortNumericAndLexical(t *testing.T) {
	records := sampleRecords()

	asc := Sort(records, SortConfig{Column: "charged_amount", Direction: Asc})
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(asc))

	desc := Sort(records, SortConfig{Column: "charged_amount", Direction: Desc})
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(desc))

	byName := Sort(records, SortConfig{Column: "merchant_name", Direction: Asc})
	// Byte-wise: upper case sorts before lower case.
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(byName))

	// Input untouched.
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(records))
}

func TestSortUnsortedKeepsOrder(t *testing.T) {
	records := sampleRecords()
	assert.Equal(t, ids(records), ids(Sort(records, SortConfig{})))
}

func TestSortStableAndIdempotent(t *testing.T) {
	records := sampleRecords()
	cfg := SortConfig{Column: "state", Direction: Asc}
	once := Sort(records, cfg)
	// completed, declined(1), declined(2), pending: ties keep input order.
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(once))
	assert.Equal(t, ids(once), ids(Sort(once, cfg)))

	descCfg := SortConfig{Column: "state", Direction: Desc}
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(Sort(records, descCfg)))
}

func TestSortToggleLaw(t *testing.T) {
	c := SortConfig{Direction: Asc}
	c = c.Toggle("amount")
	assert.Equal(t, SortConfig{Column: "amount", Direction: Asc}, c)
	c = c.Toggle("amount")
	assert.Equal(t, SortConfig{Column: "amount", Direction: Desc}, c)
	c = c.Toggle("amount")
	assert.Equal(t, Asc, c.Direction)
	c = c.Toggle("amount").Toggle("state")
	assert.Equal(t, SortConfig{Column: "state", Direction: Asc}, c)
}

func TestPaginateLaw(t *testing.T) {
	for total := 0; total <= 23; total++ {
		for _, size := range []int{1, 5, 10, 50} {
			records := make([]Record, total)
			for i := range records {
				records[i] = RecordOf("i", fmt.Sprint(i))
			}
			first := Paginate(records, 1, size)
			sum := 0
			for p := 1; p <= first.TotalPages; p++ {
				page := Paginate(records, p, size)
				sum += len(page.Items)
				if p == first.TotalPages {
					assert.GreaterOrEqual(t, len(page.Items), 1)
					assert.LessOrEqual(t, len(page.Items), size)
				}
			}
			require.Equal(t, total, sum, "total=%d size=%d", total, size)
		}
	}
}

func TestPaginateIndices(t *testing.T) {
	records := make([]Record, 120)
	p := Paginate(records, 3, 50)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 101, p.StartIndex)
	assert.Equal(t, 120, p.EndIndex)
	assert.Len(t, p.Items, 20)
	assert.Equal(t, "Showing 101 to 120 of 120 results", p.Summary())

	empty := Paginate(nil, 1, 50)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
	assert.Equal(t, "No data available", empty.Summary())

	beyond := Paginate(records, 9, 50)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 401, beyond.StartIndex)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(7, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(5, 0))
}

func TestComputeStatsBoundaries(t *testing.T) {
	empty := ComputeStats(nil, DefaultFields(), DefaultMarkers())
	assert.Equal(t, "0", empty.Total)
	assert.Equal(t, "0", empty.FraudCount)
	assert.Equal(t, "0", empty.DeclinedCount)
	assert.Equal(t, "0%", empty.FraudRate)

	st := ComputeStats(sampleRecords(), DefaultFields(), DefaultMarkers())
	assert.Equal(t, "4", st.Total)
	assert.Equal(t, "2", st.FraudCount)
	assert.Equal(t, "2", st.DeclinedCount)
	assert.Equal(t, "50.00%", st.FraudRate)
}

func TestComputeStatsGroupsThousands(t *testing.T) {
	records := make([]Record, 1500)
	for i := range records {
		records[i] = RecordOf("fraud", "0", "state", "completed")
	}
	records[0] = RecordOf("fraud", "1", "state", "declined")
	st := ComputeStats(records, DefaultFields(), DefaultMarkers())
	assert.Equal(t, "1,500", st.Total)
	assert.Equal(t, "0.07%", st.FraudRate)
}

func TestHeaderAndCellFormatting(t *testing.T) {
	assert.Equal(t, "User Name", HeaderName("user_name"))
	assert.Equal(t, "Mcc", HeaderName("mcc"))
	assert.Equal(t, "Merchant Name", HeaderName("merchant name"))
	assert.Equal(t, "User-Id", HeaderName("user-id"))
	assert.Equal(t, "Geo.Lat", HeaderName("geo.lat"))
	assert.Equal(t, "Step 2fa", HeaderName("step_2fa"))

	assert.Equal(t, "-", CellText("merchant_name", ""))
	assert.Equal(t, "$1,234.5", CellText("charged_amount", "1234.50"))
	assert.Equal(t, "$150", CellText("charged_amount", "150.00"))
	assert.Equal(t, "12.5", CellText("charged_amount", "12.5"))
	assert.Equal(t, "Yes", CellText("fraud", "1"))
	assert.Equal(t, "No", CellText("rule_velocity", "False"))
	assert.Equal(t, "Declined", CellText("state", "declined"))
	assert.Equal(t, "completed", CellText("state", "completed"))

	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	assert.Equal(t, long[:50]+"...", CellText("note", long))
}
