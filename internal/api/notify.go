package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/izposoja/internal/notify"
)

// NotifyHandler triggers the simulated reservation e-mail.
type NotifyHandler struct {
	Notifier notify.Notifier
}

// Notify handles POST /api/notify.
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req notify.Request
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.Notifier.Notify(r.Context(), req)
	if errors.Is(err, notify.ErrIncomplete) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("sending notification", "error", err)
		jsonResponse(w, http.StatusBadGateway, notify.Result{OK: false, Message: "failed to send notification"})
		return
	}
	jsonResponse(w, http.StatusOK, res)
}
