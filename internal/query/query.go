// Package query derives the displayed page of reservations from the full
// collection: filter, then sort, then paginate.
//
// All functions are pure. The caller owns State and passes it on every call.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/erazemk/izposoja/internal/model"
)

// SortKey names the reservation field to sort by.
type SortKey string

// Sort keys.
const (
	SortDate       SortKey = "date"
	SortItemName   SortKey = "itemName"
	SortType       SortKey = "type"
	SortEmployeeID SortKey = "employeeId"
	SortStatus     SortKey = "status"
	SortReturnDate SortKey = "returnDate"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize is used when the requested page size is not positive.
const DefaultPageSize = 10

// State is the caller-owned filter, sort and page state.
type State struct {
	Search   string
	Type     string
	DateFrom model.Date
	DateTo   model.Date
	// Statuses restricts results to these statuses. An empty set does not
	// filter at all.
	Statuses []model.Status
	SortKey  SortKey
	SortDir  Direction
	Page     int
	PageSize int
}

// DefaultState returns the initial state: newest date first, first page,
// every known status selected.
func DefaultState() State {
	return State{
		Statuses: slices.Clone(model.Statuses),
		SortKey:  SortDate,
		SortDir:  Desc,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// ToggleSort returns s sorted by key: the same key flips the direction, a
// new key sorts ascending. The page is kept.
func (s State) ToggleSort(key SortKey) State {
	if s.SortKey == key {
		if s.SortDir == Asc {
			s.SortDir = Desc
		} else {
			s.SortDir = Asc
		}
		return s
	}
	s.SortKey = key
	s.SortDir = Asc
	return s
}

// Result is one page of reservations.
type Result struct {
	Items      []model.Reservation `json:"items"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
	// Page is the page actually returned after clamping. Callers store it
	// back into their state.
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Run filters, sorts and paginates all according to s. It never fails:
// out-of-range pages are clamped and an empty match yields one empty page.
// all is not modified.
func Run(all []model.Reservation, s State) Result {
	list := Filter(all, s)
	Sort(list, s.SortKey, s.SortDir)

	size := s.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	items, totalPages, page := Paginate(list, s.Page, size)
	return Result{
		Items:      items,
		Total:      len(list),
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
	}
}

// Filter returns a new slice with the reservations matching the search,
// type, date range and status criteria of s, in their original order.
func Filter(all []model.Reservation, s State) []model.Reservation {
	search := strings.ToLower(strings.TrimSpace(s.Search))
	from, to := s.DateFrom.Key(), s.DateTo.Key()

	list := make([]model.Reservation, 0, len(all))
	for _, r := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.EmployeeID), search) &&
			!strings.Contains(strings.ToLower(r.ItemName), search) {
			continue
		}
		if s.Type != "" && r.Type != s.Type {
			continue
		}
		key := r.Date.Key()
		if from != "" && key < from {
			continue
		}
		if to != "" && key > to {
			continue
		}
		if len(s.Statuses) > 0 && !slices.Contains(s.Statuses, r.Status) {
			continue
		}
		list = append(list, r)
	}
	return list
}

// Sort orders list in place by key and dir. The sort is stable, so ties
// keep their previous order. An unknown key leaves list unchanged.
func Sort(list []model.Reservation, key SortKey, dir Direction) {
	field := sortField(key)
	if field == nil {
		return
	}
	sign := 1
	if dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(list, func(a, b model.Reservation) int {
		return sign * cmp.Compare(field(a), field(b))
	})
}

// sortField returns the comparable value of a reservation for key. Dates
// compare by key, where an absent date is "" and sorts first; text compares
// case-insensitively.
func sortField(key SortKey) func(model.Reservation) string {
	switch key {
	case SortDate:
		return func(r model.Reservation) string { return r.Date.Key() }
	case SortReturnDate:
		return func(r model.Reservation) string { return r.ReturnDate.Key() }
	case SortItemName:
		return func(r model.Reservation) string { return strings.ToLower(r.ItemName) }
	case SortType:
		return func(r model.Reservation) string { return strings.ToLower(r.Type) }
	case SortEmployeeID:
		return func(r model.Reservation) string { return strings.ToLower(r.EmployeeID) }
	case SortStatus:
		return func(r model.Reservation) string { return strings.ToLower(string(r.Status)) }
	default:
		return nil
	}
}

// Paginate returns the page of list with the given 1-based number and size,
// the total number of pages (at least 1) and the page number actually used.
// Pages past the end clamp to the last page; pages below 1 become 1.
func Paginate(list []model.Reservation, page, size int) ([]model.Reservation, int, int) {
	if size < 1 {
		size = DefaultPageSize
	}
	totalPages := max(1, (len(list)+size-1)/size)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * size
	end := min(start+size, len(list))
	return slices.Clone(list[start:end]), totalPages, page
}

// PageWindow returns up to size consecutive page numbers around active,
// shifted to stay within 1..totalPages.
func PageWindow(totalPages, active, size int) []int {
	if totalPages < 1 || size < 1 {
		return nil
	}
	start := max(1, active-size/2)
	end := min(totalPages, start+size-1)
	if end-start+1 < size {
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
