package table

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultPageSize is the number of rows shown per page.
const DefaultPageSize = 50

// Options configures a Session.
type Options struct {
	PageSize int
	Fields   Fields
	Markers  Markers
}

// View is the derived state of a session: the filtered and sorted rows and
// the visible page of them.
type View struct {
	Rows []Record
	Page Page
}

// Session is the table state of one analyst: simple filters, sort config and
// current page over a Store. Derived results are memoised under a key built
// from every input, so an input change can never serve a stale view. Only
// the latest rows and stats entries are kept.
// A Session is not safe for concurrent use.
type Session struct {
	store    *Store
	opts     Options
	filters  FilterState
	sort     SortConfig
	page     int
	memo     *cache.Cache
	rowsKey  string
	statsKey string
}

// NewSession returns a session on store starting unfiltered, unsorted, on
// page 1.
func NewSession(store *Store, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Fields == (Fields{}) {
		opts.Fields = DefaultFields()
	}
	if opts.Markers == (Markers{}) {
		opts.Markers = DefaultMarkers()
	}
	return &Session{
		store: store,
		opts:  opts,
		sort:  SortConfig{Direction: Asc},
		page:  1,
		memo:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Session) Filters() FilterState { return s.filters }
func (s *Session) SortConfig() SortConfig { return s.sort }
func (s *Session) PageNumber() int { return s.page }
func (s *Session) PageSize() int { return s.opts.PageSize }
func (s *Session) Fields() Fields { return s.opts.Fields }

// SetFilter changes one filter field and returns to page 1.
func (s *Session) SetFilter(field FilterField, value string) {
	s.filters = s.filters.Update(field, value)
	s.page = 1
}

// QuickFilter resets the filters and sets exactly one field, as a stats card
// click does. Kind QuickClear just resets.
func (s *Session) QuickFilter(kind FilterField, value string) {
	s.filters = QuickFilter(kind, value)
	s.page = 1
}

// ClearFilters drops every filter and returns to page 1.
func (s *Session) ClearFilters() {
	s.filters = FilterState{}
	s.page = 1
}

// SortBy toggles the sort on column and returns to page 1.
func (s *Session) SortBy(column string) {
	s.sort = s.sort.Toggle(column)
	s.page = 1
}

// SetPage moves to page, clamped to the pages of the current result.
func (s *Session) SetPage(page int) {
	s.page = ClampPage(page, s.totalPages(len(s.rows())))
}

func (s *Session) NextPage() { s.SetPage(s.page + 1) }
func (s *Session) PrevPage() { s.SetPage(s.page - 1) }

// View recomputes (or recalls) the filtered, sorted rows and the current
// page. The current page is clamped first in case the result shrank.
func (s *Session) View() View {
	rows := s.rows()
	s.page = ClampPage(s.page, s.totalPages(len(rows)))
	return View{Rows: rows, Page: Paginate(rows, s.page, s.opts.PageSize)}
}

// Stats summarises the full store regardless of the active filters.
func (s *Session) Stats() Stats {
	key := fmt.Sprintf("stats|%d", s.store.Generation())
	if v, ok := s.memo.Get(key); ok {
		return v.(Stats)
	}
	st := ComputeStats(s.store.All(), s.opts.Fields, s.opts.Markers)
	s.remember(&s.statsKey, key, st)
	return st
}

// Columns returns the dataset's column names.
func (s *Session) Columns() []string { return s.store.Columns() }

func (s *Session) rows() []Record {
	key := fmt.Sprintf("rows|%d|%q|%q|%q|%q|%s",
		s.store.Generation(),
		s.filters.SearchTerm, s.filters.StatusFilter, s.filters.FraudFilter,
		s.sort.Column, s.sort.Direction)
	if v, ok := s.memo.Get(key); ok {
		return v.([]Record)
	}
	rows := Sort(Apply(s.store.All(), s.filters, s.opts.Fields), s.sort)
	s.remember(&s.rowsKey, key, rows)
	return rows
}

// remember stores v under key and evicts the entry *slot previously named.
func (s *Session) remember(slot *string, key string, v any) {
	if *slot != "" && *slot != key {
		s.memo.Delete(*slot)
	}
	*slot = key
	s.memo.SetDefault(key, v)
}

func (s *Session) totalPages(n int) int {
	return (n + s.opts.PageSize - 1) / s.opts.PageSize
}
