// Package calendar builds the month view of reservation counts and
// availability.
package calendar

import (
	"fmt"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

// Weekdays are the column headers of a grid, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Cell is one slot of the month grid. Padding cells before the first and
// after the last day of the month are Empty and carry no other data.
type Cell struct {
	Empty     bool       `json:"empty"`
	Day       int        `json:"day,omitempty"`
	Date      model.Date `json:"date"`
	Count     int        `json:"count"`
	IsToday   bool       `json:"is_today"`
	Available bool       `json:"available"`
}

// Grid is a month laid out in Monday-first weeks of seven cells.
type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks [][]Cell   `json:"weeks"`
}

// MonthGrid lays out the given month and counts the reservations on each day.
// A day is available when it has no reservations. The grid is rebuilt from
// reservations on every call.
func MonthGrid(year int, month time.Month, reservations []model.Reservation, today model.Date) Grid {
	counts := make(map[string]int, len(reservations))
	for _, r := range reservations {
		counts[r.Date.Key()]++
	}

	first := model.NewDate(year, month, 1)
	// Normalized so that out-of-range months roll into the right year.
	year, month = first.Year, first.Month

	padding := (int(first.Weekday()) + 6) % 7
	days := model.DaysIn(year, month)
	rows := (padding + days + 6) / 7

	cells := make([]Cell, rows*7)
	for i := range cells {
		n := i - padding + 1
		if n < 1 || n > days {
			cells[i] = Cell{Empty: true}
			continue
		}
		d := model.NewDate(year, month, n)
		count := counts[d.Key()]
		cells[i] = Cell{
			Day:       n,
			Date:      d,
			Count:     count,
			IsToday:   model.SameDay(d, today),
			Available: count == 0,
		}
	}

	weeks := make([][]Cell, rows)
	for w := range weeks {
		weeks[w] = cells[w*7 : (w+1)*7]
	}
	return Grid{Year: year, Month: month, Weeks: weeks}
}

// Cells returns the grid's cells in row-major order.
func (g Grid) Cells() []Cell {
	var cells []Cell
	for _, week := range g.Weeks {
		cells = append(cells, week...)
	}
	return cells
}

// Label returns the month heading, e.g. "October 2026".
func (g Grid) Label() string {
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// Day returns the cell of date d, or false if d is not in the grid's month.
func (g Grid) Day(d model.Date) (Cell, bool) {
	if d.Year != g.Year || d.Month != g.Month {
		return Cell{}, false
	}
	for _, c := range g.Cells() {
		if !c.Empty && c.Day == d.Day {
			return c, true
		}
	}
	return Cell{}, false
}

// Cursor is the month a calendar is showing.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorOf returns the cursor for the month containing d.
func CursorOf(d model.Date) Cursor {
	return Cursor{Year: d.Year, Month: d.Month}
}

// Shift moves the cursor by n months, rolling over year boundaries.
func (c Cursor) Shift(n int) Cursor {
	d := model.NewDate(c.Year, c.Month+time.Month(n), 1)
	return Cursor{Year: d.Year, Month: d.Month}
}
