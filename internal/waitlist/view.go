// internal/waitlist/view.go
package waitlist

import (
	"fmt"
	"slices"
	"strings"

	"puppy-admin/internal/models"
)

// Column identifies a table column.
type Column string

const (
	ColumnSelect          Column = "select"
	ColumnFirstName       Column = "first_name"
	ColumnLastName        Column = "last_name"
	ColumnEmail           Column = "email"
	ColumnPhoneNumber     Column = "phone_number"
	ColumnApplicationDate Column = "application_date"
	ColumnStatus          Column = "status"
	ColumnActions         Column = "actions"
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnSelect,
	ColumnFirstName,
	ColumnLastName,
	ColumnEmail,
	ColumnPhoneNumber,
	ColumnApplicationDate,
	ColumnStatus,
	ColumnActions,
}

// ParseColumn resolves a column by its identifier.
func ParseColumn(raw string) (Column, error) {
	for _, c := range Columns {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, raw)
}

// Hideable reports whether the operator may toggle the column off.
func (c Column) Hideable() bool {
	return c != ColumnSelect && c != ColumnActions
}

// Sortable reports whether the column can be the active sort key.
func (c Column) Sortable() bool {
	return c.Hideable()
}

// Sort is the single active sort key.
type Sort struct {
	Column Column `json:"column"`
	Desc   bool   `json:"desc"`
}

// ViewState is the presentation state a view is derived from.
type ViewState struct {
	Filter    string
	Sort      *Sort
	PageIndex int
	Hidden    map[Column]bool
	Selected  map[string]bool
	Updating  map[string]bool
}

// Row is one rendered table row.
type Row struct {
	models.WaitlistApplication
	Selected bool `json:"selected"`
	Updating bool `json:"updating"`
}

// Page is the derived table: what the operator sees for one page.
type Page struct {
	Columns       []Column `json:"columns"`
	Rows          []Row    `json:"rows"`
	Filter        string   `json:"filter"`
	Sort          *Sort    `json:"sort,omitempty"`
	PageIndex     int      `json:"page_index"`
	PageCount     int      `json:"page_count"`
	PageSize      int      `json:"page_size"`
	CanPrevious   bool     `json:"can_previous"`
	CanNext       bool     `json:"can_next"`
	TotalCount    int      `json:"total_count"`
	FilteredCount int      `json:"filtered_count"`
	SelectedCount int      `json:"selected_count"`
}

// Derive computes a page from the records and the view state. It never
// modifies records.
func Derive(records []models.WaitlistApplication, vs ViewState, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	filtered := Filter(records, vs.Filter)
	if vs.Sort != nil {
		filtered = SortRecords(filtered, *vs.Sort)
	}

	pageCount := pageCountFor(len(filtered), pageSize)
	pageIndex := clampPage(vs.PageIndex, pageCount)

	selected := 0
	for _, r := range filtered {
		if vs.Selected[r.ID] {
			selected++
		}
	}

	start := min(pageIndex*pageSize, len(filtered))
	end := min(start+pageSize, len(filtered))
	rows := make([]Row, 0, end-start)
	for _, r := range filtered[start:end] {
		rows = append(rows, Row{
			WaitlistApplication: r,
			Selected:            vs.Selected[r.ID],
			Updating:            vs.Updating[r.ID],
		})
	}

	var columns []Column
	for _, c := range Columns {
		if !vs.Hidden[c] {
			columns = append(columns, c)
		}
	}

	var sort *Sort
	if vs.Sort != nil {
		s := *vs.Sort
		sort = &s
	}

	return Page{
		Columns:       columns,
		Rows:          rows,
		Filter:        vs.Filter,
		Sort:          sort,
		PageIndex:     pageIndex,
		PageCount:     pageCount,
		PageSize:      pageSize,
		CanPrevious:   pageIndex > 0,
		CanNext:       pageIndex < pageCount-1,
		TotalCount:    len(records),
		FilteredCount: len(filtered),
		SelectedCount: selected,
	}
}

// Filter keeps records whose first or last name contains query, ignoring case.
// The result is a new slice in the original order.
func Filter(records []models.WaitlistApplication, query string) []models.WaitlistApplication {
	q := strings.ToLower(query)
	out := make([]models.WaitlistApplication, 0, len(records))
	for _, r := range records {
		if q == "" ||
			strings.Contains(strings.ToLower(r.FirstName), q) ||
			strings.Contains(strings.ToLower(r.LastName), q) {
			out = append(out, r)
		}
	}
	return out
}

// SortRecords returns a stably sorted copy of records.
func SortRecords(records []models.WaitlistApplication, s Sort) []models.WaitlistApplication {
	out := slices.Clone(records)
	cmp := comparator(s.Column)
	if cmp == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b models.WaitlistApplication) int {
		if s.Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func comparator(c Column) func(a, b models.WaitlistApplication) int {
	text := func(get func(models.WaitlistApplication) string) func(a, b models.WaitlistApplication) int {
		return func(a, b models.WaitlistApplication) int {
			return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
		}
	}

	switch c {
	case ColumnFirstName:
		return text(func(r models.WaitlistApplication) string { return r.FirstName })
	case ColumnLastName:
		return text(func(r models.WaitlistApplication) string { return r.LastName })
	case ColumnEmail:
		return text(func(r models.WaitlistApplication) string { return r.Email })
	case ColumnPhoneNumber:
		return text(func(r models.WaitlistApplication) string { return r.PhoneNumber })
	case ColumnStatus:
		return text(func(r models.WaitlistApplication) string { return string(r.Status) })
	case ColumnApplicationDate:
		return func(a, b models.WaitlistApplication) int {
			return a.ApplicationDate.Compare(b.ApplicationDate.Time)
		}
	default:
		return nil
	}
}

func pageCountFor(n, pageSize int) int {
	return (n + pageSize - 1) / pageSize
}

func clampPage(index, pageCount int) int {
	if index >= pageCount {
		index = pageCount - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
