package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/erazemk/izposoja/internal/calendar"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/query"
	"github.com/erazemk/izposoja/internal/store"
)

// URL parameters of the index page besides the list state.
const (
	calParam  = "cal"
	dateParam = "date"
	msgParam  = "msg"
)

// pageWindow is the number of page buttons shown.
const pageWindow = 7

// Messages shown after a redirect, keyed by the msg parameter.
var flashMessages = map[string]string{
	"created": "Reservation has been created.",
}

// pageSizes are offered in the page size selector.
var pageSizes = []int{5, 10, 20, 50}

type reservationForm struct {
	EmployeeID string
	ItemID     string
	Date       string
}

type indexPage struct {
	PageData
	Items     []model.Item
	Types     []string
	Statuses  []model.Status
	PageSizes []int
	Form      reservationForm
	FormToken string
	// Back carries the list and calendar state through form posts.
	Back     string
	State    query.State
	Result   query.Result
	Pages    []int
	Grid     calendar.Grid
	Cursor   calendar.Cursor
	Weekdays []string
	Today    model.Date

	reservations []model.Reservation
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page, err := s.buildIndex(r.Context(), values)
	if err != nil {
		slog.Error("failed to build index page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page.Success = flashMessages[values.Get(msgParam)]

	if raw := values.Get(dateParam); raw != "" {
		prefillDate(page, raw)
	}

	s.Templates.Render(w, "index.html", page)
}

// prefillDate puts a date picked in the calendar into the reservation form,
// unless the day already has reservations.
func prefillDate(page *indexPage, raw string) {
	d, err := model.ParseDate(raw)
	if err != nil {
		page.Warning = "Please select a valid date."
		return
	}

	grid := calendar.MonthGrid(d.Year, d.Month, page.reservations, page.Today)
	if cell, ok := grid.Day(d); ok && !cell.Available {
		page.Warning = "This day is not available for new reservations."
		return
	}

	page.Form.Date = d.Key()
	page.Info = "Date has been pre-filled from the calendar."
}

// buildIndex loads everything the index page shows for the given URL state.
func (s *Server) buildIndex(ctx context.Context, values url.Values) (*indexPage, error) {
	today := s.Today()

	items, err := store.ListItems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	types, err := store.ListItemTypes(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	reservations, err := store.ListReservations(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	token, err := s.Tokens.Issue()
	if err != nil {
		return nil, err
	}

	state := query.FromValues(values)
	result := query.Run(reservations, state)
	state.Page = result.Page
	state.PageSize = result.PageSize

	cursor := parseCursor(values, today)
	grid := calendar.MonthGrid(cursor.Year, cursor.Month, reservations, today)

	page := &indexPage{
		PageData:  PageData{Title: "Equipment reservations"},
		Items:     items,
		Types:     types,
		Statuses:  model.Statuses,
		PageSizes: pageSizes,
		FormToken: token,
		State:     state,
		Result:    result,
		Pages:     query.PageWindow(result.TotalPages, result.Page, pageWindow),
		Grid:      grid,
		Cursor:    cursor,
		Weekdays:  calendar.Weekdays,
		Today:     today,

		reservations: reservations,
	}
	page.Back = page.values(state, cursor).Encode()
	return page, nil
}

// parseCursor reads the calendar month from the cal parameter (YYYY-MM),
// falling back to the month of a picked date and then to the current month.
func parseCursor(values url.Values, today model.Date) calendar.Cursor {
	if t, err := time.Parse("2006-01", values.Get(calParam)); err == nil {
		return calendar.Cursor{Year: t.Year(), Month: t.Month()}
	}
	if d, err := model.ParseDate(values.Get(dateParam)); err == nil && !d.IsZero() {
		return calendar.CursorOf(d)
	}
	return calendar.CursorOf(today)
}

func (p *indexPage) values(s query.State, c calendar.Cursor) url.Values {
	v := s.Values()
	v.Set(calParam, fmt.Sprintf("%04d-%02d", c.Year, int(c.Month)))
	return v
}

func (p *indexPage) link(s query.State, c calendar.Cursor) string {
	return "/?" + p.values(s, c).Encode()
}

// SortURL links to the list sorted by key, flipping the direction when key
// is already the sort key.
func (p *indexPage) SortURL(key string) string {
	return p.link(p.State.ToggleSort(query.SortKey(key)), p.Cursor)
}

// SortMark returns the direction arrow shown next to the active sort column.
func (p *indexPage) SortMark(key string) string {
	if p.State.SortKey != query.SortKey(key) {
		return ""
	}
	if p.State.SortDir == query.Asc {
		return "▲"
	}
	return "▼"
}

// PageURL links to page n of the current list.
func (p *indexPage) PageURL(n int) string {
	s := p.State
	s.Page = n
	return p.link(s, p.Cursor)
}

// HasPrev reports whether there is a page before the current one.
func (p *indexPage) HasPrev() bool { return p.Result.Page > 1 }

// HasNext reports whether there is a page after the current one.
func (p *indexPage) HasNext() bool { return p.Result.Page < p.Result.TotalPages }

// PrevURL links to the previous page.
func (p *indexPage) PrevURL() string { return p.PageURL(p.Result.Page - 1) }

// NextURL links to the next page.
func (p *indexPage) NextURL() string { return p.PageURL(p.Result.Page + 1) }

// MonthURL links to the calendar shifted by n months.
func (p *indexPage) MonthURL(n int) string {
	return p.link(p.State, p.Cursor.Shift(n))
}

// DayURL links to the page with d picked in the calendar.
func (p *indexPage) DayURL(d model.Date) string {
	v := p.values(p.State, p.Cursor)
	v.Set(dateParam, d.Key())
	return "/?" + v.Encode() + "#form-section"
}

// ExportURL links to the calendar export of the current filters.
func (p *indexPage) ExportURL() string {
	return "/reservations.ics?" + p.State.Values().Encode()
}

// ResetURL links to the default list state.
func (p *indexPage) ResetURL() string {
	return p.link(query.DefaultState(), p.Cursor)
}

// CursorKey is the current calendar month as YYYY-MM.
func (p *indexPage) CursorKey() string {
	return fmt.Sprintf("%04d-%02d", p.Cursor.Year, int(p.Cursor.Month))
}
