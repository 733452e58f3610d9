package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/izposoja/internal/export"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/notify"
	"github.com/erazemk/izposoja/internal/query"
	"github.com/erazemk/izposoja/internal/store"
)

// Reservation form messages.
const (
	msgEmployeeRequired = "Please enter an Employee ID."
	msgItemRequired     = "Please select an item."
	msgDateRequired     = "Please select a date."
	msgPastDate         = "Date cannot be in the past."
	msgDuplicate        = "A reservation for this employee, item, and date already exists."
	msgItemNotFound     = "The selected item does not exist."
	msgFormExpired      = "This form has expired or was already submitted. Please try again."
	msgCreateFailed     = "Reservation could not be created."

	msgNotifyIncomplete = "To simulate an email, please fill in Employee ID, Item, and Date."
	msgNotifySent       = "Simulated email has been sent."
	msgNotifyFailed     = "Email simulation failed."
)

// ReservationSubmit handles POST /reservations.
func (s *Server) ReservationSubmit(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)
	back := backValues(r.PostFormValue("back"))

	date, msg := validateForm(form)
	if msg != "" {
		s.renderForm(w, r, http.StatusUnprocessableEntity, back, form, PageData{Error: msg})
		return
	}

	if err := s.Tokens.Redeem(r.Context(), s.DB, r.PostFormValue("token")); err != nil {
		slog.Warn("reservation form token rejected", "error", err)
		s.renderForm(w, r, http.StatusUnprocessableEntity, back, form, PageData{Error: msgFormExpired})
		return
	}

	res, err := store.CreateReservation(r.Context(), s.DB, s.Today(), form.EmployeeID, form.ItemID, date)
	if err != nil {
		msg := msgCreateFailed
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, store.ErrPastDate):
			msg = msgPastDate
		case errors.Is(err, store.ErrDuplicateReservation):
			msg = msgDuplicate
			status = http.StatusConflict
		case errors.Is(err, store.ErrItemNotFound):
			msg = msgItemNotFound
		default:
			slog.Error("failed to create reservation", "error", err)
			status = http.StatusInternalServerError
		}
		s.renderForm(w, r, status, back, form, PageData{Error: msg})
		return
	}

	slog.Info("reservation created", "id", res.ID,
		"employee", res.EmployeeID, "item", res.ItemID, "date", res.Date.Key())

	back.Set(msgParam, "created")
	http.Redirect(w, r, "/?"+back.Encode(), http.StatusSeeOther)
}

// NotifySubmit handles POST /notify.
func (s *Server) NotifySubmit(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)
	back := backValues(r.PostFormValue("back"))

	date, _ := model.ParseDate(form.Date)
	req := notify.Request{EmployeeID: form.EmployeeID, ItemID: form.ItemID, Date: date}
	if err := req.Validate(); err != nil {
		s.renderForm(w, r, http.StatusUnprocessableEntity, back, form, PageData{Warning: msgNotifyIncomplete})
		return
	}

	res, err := s.Notifier.Notify(r.Context(), req)
	if err != nil || !res.OK {
		slog.Error("failed to send notification", "error", err)
		s.renderForm(w, r, http.StatusBadGateway, back, form, PageData{Error: msgNotifyFailed})
		return
	}
	s.renderForm(w, r, http.StatusOK, back, form, PageData{Success: msgNotifySent})
}

// ExportICS handles GET /reservations.ics. It exports every reservation
// matching the current filters, in the current sort order.
func (s *Server) ExportICS(w http.ResponseWriter, r *http.Request) {
	all, err := store.ListReservations(r.Context(), s.DB)
	if err != nil {
		slog.Error("failed to list reservations for export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	state := query.FromValues(r.URL.Query())
	list := query.Filter(all, state)
	query.Sort(list, state.SortKey, state.SortDir)

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, "Equipment reservations", list, time.Now()); err != nil {
		slog.Error("failed to write calendar export", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ICSContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=reservations.ics")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write calendar response", "error", err)
	}
}

// renderForm re-renders the index page for the state in back, keeping the
// submitted form values.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, back url.Values, form reservationForm, msg PageData) {
	page, err := s.buildIndex(r.Context(), back)
	if err != nil {
		slog.Error("failed to build index page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page.Form = form
	page.Error = msg.Error
	page.Success = msg.Success
	page.Warning = msg.Warning
	page.Info = msg.Info
	s.Templates.RenderStatus(w, status, "index.html", page)
}

func readForm(r *http.Request) reservationForm {
	return reservationForm{
		EmployeeID: strings.TrimSpace(r.PostFormValue("employee_id")),
		ItemID:     strings.TrimSpace(r.PostFormValue("item_id")),
		Date:       strings.TrimSpace(r.PostFormValue("date")),
	}
}

// validateForm checks the required fields and returns the parsed date, or a
// message for the first problem found.
func validateForm(form reservationForm) (model.Date, string) {
	if form.EmployeeID == "" {
		return model.Date{}, msgEmployeeRequired
	}
	if form.ItemID == "" {
		return model.Date{}, msgItemRequired
	}
	date, err := model.ParseDate(form.Date)
	if err != nil || date.IsZero() {
		return model.Date{}, msgDateRequired
	}
	return date, ""
}

// backValues parses the list state carried by a form. Values that only make
// sense for a single page view are dropped.
func backValues(raw string) url.Values {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return url.Values{}
	}
	v.Del(msgParam)
	v.Del(dateParam)
	return v
}
