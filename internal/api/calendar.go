package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/izposoja/internal/calendar"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// CalendarHandler serves the month availability grid.
type CalendarHandler struct {
	DB    *sql.DB
	Today func() model.Date
}

type calendarResponse struct {
	calendar.Grid
	Label string `json:"label"`
}

// Month handles GET /api/calendar?year=&month=. Both parameters default to
// the current month; month is 1-12.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	today := h.Today()
	cur := calendar.CursorOf(today)

	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1 || year > 9999 {
			jsonError(w, http.StatusBadRequest, "invalid year")
			return
		}
		cur.Year = year
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil || month < 1 || month > 12 {
			jsonError(w, http.StatusBadRequest, "month must be 1-12")
			return
		}
		cur.Month = time.Month(month)
	}

	reservations, err := store.ListReservations(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing reservations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	grid := calendar.MonthGrid(cur.Year, cur.Month, reservations, today)
	jsonResponse(w, http.StatusOK, calendarResponse{Grid: grid, Label: grid.Label()})
}
