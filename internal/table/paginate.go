package table

import "fmt"

// Page is one slice of a result set plus display metadata. StartIndex and
// EndIndex are 1-based and inclusive, computed from the requested page.
type Page struct {
	Items      []Record
	Number     int
	TotalPages int
	StartIndex int
	EndIndex   int
	TotalItems int
}

// Paginate slices records into page number page of pageSize items.
// Page numbers are not clamped here: an out-of-range page yields no items,
// and StartIndex/EndIndex still reflect the requested page. Use ClampPage
// before calling when the page comes from user input.
func Paginate(records []Record, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = 1
	}
	total := len(records)
	p := Page{
		Number:     page,
		TotalPages: (total + pageSize - 1) / pageSize,
		TotalItems: total,
	}
	start := (page - 1) * pageSize
	p.StartIndex = start + 1
	p.EndIndex = min(page*pageSize, total)

	if start < 0 || start >= total {
		p.Items = []Record{}
		return p
	}
	end := min(start+pageSize, total)
	p.Items = make([]Record, end-start)
	copy(p.Items, records[start:end])
	return p
}

// ClampPage forces page into [1, totalPages], or to 1 when there are no
// pages.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Summary renders the footer shown under the table.
func (p Page) Summary() string {
	if p.TotalItems == 0 {
		return "No data available"
	}
	return fmt.Sprintf("Showing %d to %d of %d results", p.StartIndex, p.EndIndex, p.TotalItems)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
