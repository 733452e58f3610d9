package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/query"
	"github.com/erazemk/izposoja/internal/store"
)

// ReservationsHandler handles reservation endpoints.
type ReservationsHandler struct {
	DB    *sql.DB
	Today func() model.Date
}

type createReservationRequest struct {
	EmployeeID string `json:"employee_id"`
	ItemID     string `json:"item_id"`
	Date       string `json:"date"`
}

// List handles GET /api/reservations. Filter, sort and page are read from
// the query string; the response reports the page actually returned.
func (h *ReservationsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := store.ListReservations(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing reservations", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	state := query.FromValues(r.URL.Query())
	jsonResponse(w, http.StatusOK, query.Run(all, state))
}

// Get handles GET /api/reservations/{id}.
func (h *ReservationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := store.GetReservation(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("getting reservation", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get reservation")
		return
	}
	if res == nil {
		jsonError(w, http.StatusNotFound, "reservation not found")
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// Create handles POST /api/reservations.
func (h *ReservationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.ItemID == "" || req.Date == "" {
		jsonError(w, http.StatusBadRequest, "employee_id, item_id and date are required")
		return
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	res, err := store.CreateReservation(r.Context(), h.DB, h.Today(), req.EmployeeID, req.ItemID, date)
	switch {
	case errors.Is(err, store.ErrItemNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, store.ErrPastDate):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, store.ErrDuplicateReservation):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.Error("creating reservation", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create reservation")
		return
	}

	slog.Info("reservation created", "id", res.ID,
		"employee", res.EmployeeID, "item", res.ItemID, "date", res.Date.Key())
	jsonResponse(w, http.StatusCreated, res)
}
