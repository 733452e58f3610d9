package web

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/izposoja/internal/formtoken"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/notify"
	webembed "github.com/erazemk/izposoja/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, tokens *formtoken.Signer, notifier notify.Notifier, today func() model.Date) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Tokens:    tokens,
		Notifier:  notifier,
		Today:     today,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("POST /reservations", s.ReservationSubmit)
	mux.HandleFunc("GET /reservations.ics", s.ExportICS)
	mux.HandleFunc("POST /notify", s.NotifySubmit)
	mux.HandleFunc("GET /items/{id}/image", s.ItemImageGet)

	return SecurityHeaders(mux), nil
}
