package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/notify"
)

// NewRouter creates the API router with all endpoints registered. today
// supplies the current calendar day to reservation validation and the
// calendar.
func NewRouter(db *sql.DB, notifier notify.Notifier, today func() model.Date) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	reservationsHandler := &ReservationsHandler{DB: db, Today: today}
	calendarHandler := &CalendarHandler{DB: db, Today: today}
	notifyHandler := &NotifyHandler{Notifier: notifier}

	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/types", itemsHandler.Types)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)

	mux.HandleFunc("GET /api/reservations", reservationsHandler.List)
	mux.HandleFunc("POST /api/reservations", reservationsHandler.Create)
	mux.HandleFunc("GET /api/reservations/{id}", reservationsHandler.Get)

	mux.HandleFunc("GET /api/calendar", calendarHandler.Month)

	mux.HandleFunc("POST /api/notify", notifyHandler.Notify)

	return mux
}
