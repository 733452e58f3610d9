package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
)

var testToday = model.NewDate(2024, time.March, 1)

func setupReservations(t *testing.T, preloaded []model.Reservation) *sql.DB {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()
	if err := LoadItems(ctx, database, testItems); err != nil {
		t.Fatalf("LoadItems: %v", err)
	}
	if err := LoadReservations(ctx, database, preloaded); err != nil {
		t.Fatalf("LoadReservations: %v", err)
	}
	return database
}

func TestCreateReservationDuplicate(t *testing.T) {
	tdb := setupReservations(t, nil)
	ctx := context.Background()
	date := model.NewDate(2024, time.March, 5)

	if _, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", date); err != nil {
		t.Fatalf("first CreateReservation: %v", err)
	}

	_, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", date)
	if !errors.Is(err, ErrDuplicateReservation) {
		t.Fatalf("expected ErrDuplicateReservation, got %v", err)
	}

	if _, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", date.AddDays(1)); err != nil {
		t.Fatalf("CreateReservation on a different date: %v", err)
	}

	// Another employee may book the same item on the same day.
	if _, err := CreateReservation(ctx, tdb, testToday, "E002", "IT001", date); err != nil {
		t.Fatalf("CreateReservation for another employee: %v", err)
	}
}

func TestLoadReservationsRepeatedKey(t *testing.T) {
	date := model.NewDate(2024, time.March, 5)
	preloaded := []model.Reservation{
		{ID: "R101", Date: date, ItemID: "IT001", ItemName: "Laptop Dell XPS 13", Type: "Laptop",
			EmployeeID: "E001", Status: model.StatusPending},
		{ID: "R102", Date: date, ItemID: "IT001", ItemName: "Laptop Dell XPS 13", Type: "Laptop",
			EmployeeID: "E001", Status: model.StatusReturned, ReturnDate: date},
	}
	tdb := setupReservations(t, preloaded)
	ctx := context.Background()

	list, err := ListReservations(ctx, tdb)
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected both preloaded reservations, got %d", len(list))
	}

	// New reservations are still checked against the preloaded history.
	_, err = CreateReservation(ctx, tdb, testToday, "E001", "IT001", date)
	if !errors.Is(err, ErrDuplicateReservation) {
		t.Fatalf("expected ErrDuplicateReservation, got %v", err)
	}
}

func TestCreateReservationPastDate(t *testing.T) {
	tdb := setupReservations(t, nil)
	ctx := context.Background()

	_, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", testToday.AddDays(-1))
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}

	if _, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", testToday); err != nil {
		t.Fatalf("expected reservation for today to succeed: %v", err)
	}
}

func TestCreateReservationUnknownItem(t *testing.T) {
	tdb := setupReservations(t, nil)
	ctx := context.Background()

	// The item check comes first, even for a past date.
	_, err := CreateReservation(ctx, tdb, testToday, "E001", "IT999", testToday.AddDays(-3))
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCreateReservationFields(t *testing.T) {
	preloaded := []model.Reservation{
		{ID: "R101", Date: testToday, ItemID: "IT003", ItemName: "Projector Epson", Type: "Projector", EmployeeID: "E003", Status: model.StatusPending},
		{ID: "R102", Date: testToday.AddDays(-2), ItemID: "IT002", ItemName: "Canon EOS R", Type: "Camera", EmployeeID: "E002", Status: model.StatusReturned, ReturnDate: testToday.AddDays(-1)},
	}
	tdb := setupReservations(t, preloaded)
	ctx := context.Background()

	r, err := CreateReservation(ctx, tdb, testToday, "E009", "IT004", testToday.AddDays(3))
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if r.ID != "R103" {
		t.Errorf("expected id R103, got %s", r.ID)
	}
	if r.ItemName != "MacBook Pro" || r.Type != "Laptop" {
		t.Errorf("expected item snapshot, got %q/%q", r.ItemName, r.Type)
	}
	if r.Status != model.StatusPending {
		t.Errorf("expected Pending, got %q", r.Status)
	}
	if !r.ReturnDate.IsZero() {
		t.Errorf("expected no return date, got %s", r.ReturnDate)
	}

	got, _ := GetReservation(ctx, tdb, "R103")
	if got == nil || *got != *r {
		t.Errorf("stored reservation differs: %+v vs %+v", got, r)
	}
}

func TestListReservationsNewestFirst(t *testing.T) {
	preloaded := []model.Reservation{
		{ID: "R101", Date: testToday, ItemID: "IT001", ItemName: "Laptop Dell XPS 13", Type: "Laptop", EmployeeID: "E001", Status: model.StatusOverdue, ReturnDate: testToday.AddDays(2)},
		{ID: "R102", Date: testToday, ItemID: "IT002", ItemName: "Canon EOS R", Type: "Camera", EmployeeID: "E002", Status: model.StatusPending},
	}
	tdb := setupReservations(t, preloaded)
	ctx := context.Background()

	CreateReservation(ctx, tdb, testToday, "E010", "IT001", testToday.AddDays(1))
	CreateReservation(ctx, tdb, testToday, "E011", "IT001", testToday.AddDays(1))

	list, err := ListReservations(ctx, tdb)
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}

	want := []string{"R104", "R103", "R101", "R102"}
	if len(list) != len(want) {
		t.Fatalf("expected %d reservations, got %d", len(want), len(list))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
	}
	if list[2].ReturnDate != testToday.AddDays(2) {
		t.Errorf("expected return date to survive storage, got %s", list[2].ReturnDate)
	}
}

func TestListReservationsReturnsCopies(t *testing.T) {
	tdb := setupReservations(t, []model.Reservation{
		{ID: "R101", Date: testToday, ItemID: "IT001", ItemName: "Laptop Dell XPS 13", Type: "Laptop", EmployeeID: "E001", Status: model.StatusPending},
	})
	ctx := context.Background()

	list, _ := ListReservations(ctx, tdb)
	list[0].EmployeeID = "MUTATED"

	again, _ := ListReservations(ctx, tdb)
	if again[0].EmployeeID != "E001" {
		t.Errorf("expected store to be unaffected by caller mutation, got %q", again[0].EmployeeID)
	}
}

func TestCreateReservationSkipsTakenIDs(t *testing.T) {
	// A preloaded record already uses the next counter value.
	tdb := setupReservations(t, []model.Reservation{
		{ID: "R102", Date: testToday, ItemID: "IT001", ItemName: "Laptop Dell XPS 13", Type: "Laptop", EmployeeID: "E001", Status: model.StatusPending},
	})
	ctx := context.Background()

	r, err := CreateReservation(ctx, tdb, testToday, "E002", "IT001", testToday)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if r.ID != "R103" {
		t.Errorf("expected R103, got %s", r.ID)
	}
}

func TestCreateReservationConcurrentDuplicates(t *testing.T) {
	tdb := setupReservations(t, nil)
	ctx := context.Background()
	date := testToday.AddDays(1)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CreateReservation(ctx, tdb, testToday, "E001", "IT001", date)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrDuplicateReservation):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 || duplicates != workers-1 {
		t.Errorf("expected 1 created and %d duplicates, got %d and %d", workers-1, created, duplicates)
	}
}
