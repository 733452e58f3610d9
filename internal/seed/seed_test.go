package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/store"
)

var today = model.NewDate(2024, time.March, 10)

func TestSample(t *testing.T) {
	data := Sample(today)

	if len(data.Items) != 5 {
		t.Errorf("expected 5 items, got %d", len(data.Items))
	}
	if len(data.Reservations) != 12 {
		t.Fatalf("expected 12 reservations, got %d", len(data.Reservations))
	}

	first := data.Reservations[0]
	if first.ID != "R101" || first.EmployeeID != "E001" || first.Status != model.StatusOverdue {
		t.Errorf("unexpected first reservation: %+v", first)
	}
	if first.Date.Key() != "2024-03-05" || first.ReturnDate.Key() != "2024-03-08" {
		t.Errorf("expected dates around today, got %s / %s", first.Date, first.ReturnDate)
	}
	if first.ItemName != "Laptop Dell XPS 13" || first.Type != "Laptop" {
		t.Errorf("expected item snapshot, got %q / %q", first.ItemName, first.Type)
	}

	if last := data.Reservations[11]; last.ID != "R112" || !last.ReturnDate.IsZero() {
		t.Errorf("unexpected last reservation: %+v", last)
	}
}

func TestLoadSample(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := Load(ctx, database, Sample(today)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reservations, err := store.ListReservations(ctx, database)
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(reservations) != 12 || reservations[0].ID != "R101" {
		t.Fatalf("expected 12 reservations starting with R101, got %d", len(reservations))
	}

	// The counter continues after the preloaded block.
	r, err := store.CreateReservation(ctx, database, today, "E100", "IT001", today)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if r.ID != "R113" {
		t.Errorf("expected R113, got %s", r.ID)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeFile(t, `{
		"items": [{"id": "A1", "name": "Tripod", "type": "Accessory"}],
		"reservations": [
			{"id": "R900", "item_id": "A1", "employee_id": "E9", "date": "2024-04-01", "status": "Returned", "return_date": "2024-04-02"},
			{"item_id": "A1", "employee_id": "E8", "offset": 2}
		]
	}`)

	data, err := ReadFile(path, today)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data.Items) != 1 || len(data.Reservations) != 2 {
		t.Fatalf("unexpected data: %+v", data)
	}

	r := data.Reservations[0]
	if r.ID != "R900" || r.ItemName != "Tripod" || r.Type != "Accessory" || r.ReturnDate.Key() != "2024-04-02" {
		t.Errorf("unexpected reservation: %+v", r)
	}

	r = data.Reservations[1]
	if r.ID != "R102" || r.Date.Key() != "2024-03-12" || r.Status != model.StatusPending {
		t.Errorf("unexpected offset reservation: %+v", r)
	}
}

func TestReadFileKeepsUnknownStatus(t *testing.T) {
	path := writeFile(t, `{
		"items": [{"id": "A1", "name": "Tripod", "type": "Accessory"}],
		"reservations": [{"item_id": "A1", "employee_id": "E9", "date": "2024-04-01", "status": "Lost"}]
	}`)

	data, err := ReadFile(path, today)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := data.Reservations[0].Status; got != "Lost" {
		t.Errorf("expected status to be kept, got %q", got)
	}
}

func TestReadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"items": [`},
		{"unknown item", `{"items": [], "reservations": [{"item_id": "X", "date": "2024-01-01"}]}`},
		{"missing date", `{"items": [{"id": "A1"}], "reservations": [{"item_id": "A1"}]}`},
		{"bad date", `{"items": [{"id": "A1"}], "reservations": [{"item_id": "A1", "date": "01/02/2024"}]}`},
	}

	for _, tt := range tests {
		if _, err := ReadFile(writeFile(t, tt.content), today); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"), today); err == nil {
		t.Error("expected error for missing file")
	}
}
