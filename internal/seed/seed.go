// Package seed provides the initial item catalog and reservation history that
// the store is loaded with at startup.
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

// Data is a catalog and a reservation history, newest reservation first.
type Data struct {
	Items        []model.Item
	Reservations []model.Reservation
}

// SampleItems returns the built-in item catalog.
func SampleItems() []model.Item {
	return []model.Item{
		{ID: "IT001", Name: "Laptop Dell XPS 13", Type: "Laptop"},
		{ID: "IT002", Name: "Canon EOS R", Type: "Camera"},
		{ID: "IT003", Name: "Projector Epson", Type: "Projector"},
		{ID: "IT004", Name: "MacBook Pro", Type: "Laptop"},
		{ID: "IT005", Name: "GoPro HERO9", Type: "Camera"},
	}
}

type sample struct {
	offset    int
	itemID    string
	employee  string
	status    model.Status
	returnOff *int
}

func days(n int) *int { return &n }

var samples = []sample{
	{-5, "IT001", "E001", model.StatusOverdue, days(-2)},
	{-1, "IT002", "E002", model.StatusReturned, days(0)},
	{0, "IT003", "E003", model.StatusPending, nil},
	{1, "IT001", "E004", model.StatusPending, nil},
	{2, "IT004", "E005", model.StatusPending, nil},
	{2, "IT002", "E006", model.StatusPending, nil},
	{3, "IT005", "E007", model.StatusPending, nil},
	{5, "IT001", "E008", model.StatusPending, nil},
	{10, "IT003", "E009", model.StatusPending, nil},
	{-2, "IT005", "E010", model.StatusReturned, days(-1)},
	{7, "IT002", "E011", model.StatusPending, nil},
	{7, "IT002", "E012", model.StatusPending, nil},
}

// Sample returns the built-in data set with dates placed around today.
// Reservation IDs run from R101 upwards.
func Sample(today model.Date) Data {
	items := SampleItems()
	byID := indexItems(items)

	reservations := make([]model.Reservation, 0, len(samples))
	for i, s := range samples {
		item := byID[s.itemID]
		r := model.Reservation{
			ID:         fmt.Sprintf("R%d", store.IDBase+1+i),
			Date:       today.AddDays(s.offset),
			ItemID:     item.ID,
			ItemName:   item.Name,
			Type:       item.Type,
			EmployeeID: s.employee,
			Status:     s.status,
		}
		if s.returnOff != nil {
			r.ReturnDate = today.AddDays(*s.returnOff)
		}
		reservations = append(reservations, r)
	}
	return Data{Items: items, Reservations: reservations}
}

type fileData struct {
	Items        []model.Item      `json:"items"`
	Reservations []fileReservation `json:"reservations"`
}

// fileReservation takes either an absolute date or a day offset from today.
type fileReservation struct {
	ID           string       `json:"id"`
	ItemID       string       `json:"item_id"`
	EmployeeID   string       `json:"employee_id"`
	Status       model.Status `json:"status"`
	Date         model.Date   `json:"date"`
	Offset       *int         `json:"offset"`
	ReturnDate   model.Date   `json:"return_date"`
	ReturnOffset *int         `json:"return_offset"`
}

// ReadFile reads a JSON data set. Reservations name their item by ID; item
// name and type are copied from the catalog. A reservation with no status
// is Pending.
func ReadFile(path string, today model.Date) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading seed file: %w", err)
	}

	var f fileData
	if err := json.Unmarshal(raw, &f); err != nil {
		return Data{}, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	byID := indexItems(f.Items)
	reservations := make([]model.Reservation, 0, len(f.Reservations))
	for i, fr := range f.Reservations {
		item, ok := byID[fr.ItemID]
		if !ok {
			return Data{}, fmt.Errorf("seed reservation %d: unknown item %q", i, fr.ItemID)
		}

		r := model.Reservation{
			ID:         fr.ID,
			Date:       fr.Date,
			ItemID:     item.ID,
			ItemName:   item.Name,
			Type:       item.Type,
			EmployeeID: fr.EmployeeID,
			Status:     fr.Status,
			ReturnDate: fr.ReturnDate,
		}
		if fr.Offset != nil {
			r.Date = today.AddDays(*fr.Offset)
		}
		if fr.ReturnOffset != nil {
			r.ReturnDate = today.AddDays(*fr.ReturnOffset)
		}
		if r.Date.IsZero() {
			return Data{}, fmt.Errorf("seed reservation %d: date or offset required", i)
		}
		if r.Status == "" {
			r.Status = model.StatusPending
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("R%d", store.IDBase+1+i)
		}
		if !r.Status.Known() {
			slog.Warn("seed reservation has an unknown status", "id", r.ID, "status", r.Status)
		}
		reservations = append(reservations, r)
	}

	return Data{Items: f.Items, Reservations: reservations}, nil
}

// Load inserts data into an empty store.
func Load(ctx context.Context, db *sql.DB, data Data) error {
	if err := store.LoadItems(ctx, db, data.Items); err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	if err := store.LoadReservations(ctx, db, data.Reservations); err != nil {
		return fmt.Errorf("loading reservations: %w", err)
	}
	slog.Info("seed data loaded", "items", len(data.Items), "reservations", len(data.Reservations))
	return nil
}

func indexItems(items []model.Item) map[string]model.Item {
	byID := make(map[string]model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID
}
