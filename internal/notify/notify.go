// Package notify sends the simulated reservation e-mail.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/erazemk/izposoja/internal/model"
)

// SentMessage is reported after a notification is delivered.
const SentMessage = "Simulated email sent."

// ErrIncomplete is returned for requests missing an employee, item or date.
var ErrIncomplete = errors.New("employee id, item and date are required")

// Request is a notification about a reservation.
type Request struct {
	EmployeeID string     `json:"employee_id"`
	ItemID     string     `json:"item_id"`
	Date       model.Date `json:"date"`
}

// Validate checks that every field is set.
func (r Request) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" || strings.TrimSpace(r.ItemID) == "" || r.Date.IsZero() {
		return ErrIncomplete
	}
	return nil
}

// Result is the outcome reported to the user.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Notifier delivers reservation notifications.
type Notifier interface {
	Notify(ctx context.Context, req Request) (Result, error)
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	Logger *slog.Logger
}

// NewLog returns a LogNotifier using the default logger.
func NewLog() *LogNotifier {
	return &LogNotifier{Logger: slog.Default()}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "simulated email",
		"employee", req.EmployeeID, "item", req.ItemID, "date", req.Date.Key())
	return Result{OK: true, Message: SentMessage}, nil
}
