package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/erazemk/izposoja/internal/model"
)

// Reservation validation errors.
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrPastDate             = errors.New("date cannot be in the past")
	ErrDuplicateReservation = errors.New("reservation for this employee, item and date already exists")
)

// IDBase is the reservation counter value before any reservation is loaded.
// The first reservation gets ID "R101".
const IDBase = 100

const counterKey = "reservation_counter"

// CreateReservation validates and inserts a new pending reservation at the
// front of the collection. The item must exist, date must not be before
// today, and no reservation may exist for the same employee, item and date.
//
// Validation and insert run in one transaction; the database is pinned to a
// single connection, so concurrent calls are serialized.
func CreateReservation(ctx context.Context, db *sql.DB, today model.Date, employeeID, itemID string, date model.Date) (*model.Reservation, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if date.Before(today) {
		return nil, ErrPastDate
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE employee_id = ? AND item_id = ? AND date = ?`,
		employeeID, itemID, date,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking duplicate reservation: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateReservation
	}

	id, err := nextReservationID(ctx, tx)
	if err != nil {
		return nil, err
	}

	r := &model.Reservation{
		ID:         id,
		Date:       date,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Type:       item.Type,
		EmployeeID: employeeID,
		Status:     model.StatusPending,
	}
	if err := insertReservation(ctx, tx, r); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reservation: %w", err)
	}
	return r, nil
}

// LoadReservations inserts preloaded reservations so that they list in the
// given order, newest block first, and advances the ID counter by their
// number. Records are taken as they are: no validation is applied.
func LoadReservations(ctx context.Context, db *sql.DB, reservations []model.Reservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := len(reservations) - 1; i >= 0; i-- {
		if err := insertReservation(ctx, tx, &reservations[i]); err != nil {
			return err
		}
	}

	counter, err := readCounter(ctx, tx)
	if err != nil {
		return err
	}
	if err := writeCounter(ctx, tx, counter+len(reservations)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reservations: %w", err)
	}
	return nil
}

// GetReservation returns a reservation by ID, or nil if it does not exist.
func GetReservation(ctx context.Context, db *sql.DB, id string) (*model.Reservation, error) {
	r := &model.Reservation{}
	err := db.QueryRowContext(ctx,
		`SELECT id, date, item_id, item_name, type, employee_id, status, return_date
		 FROM reservations WHERE id = ?`, id,
	).Scan(&r.ID, &r.Date, &r.ItemID, &r.ItemName, &r.Type, &r.EmployeeID, &r.Status, &r.ReturnDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting reservation: %w", err)
	}
	return r, nil
}

// ListReservations returns a copy of the whole collection, newest first.
func ListReservations(ctx context.Context, db *sql.DB) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, date, item_id, item_name, type, employee_id, status, return_date
		 FROM reservations ORDER BY seq DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	var reservations []model.Reservation
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(&r.ID, &r.Date, &r.ItemID, &r.ItemName, &r.Type, &r.EmployeeID, &r.Status, &r.ReturnDate); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func insertReservation(ctx context.Context, tx *sql.Tx, r *model.Reservation) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (id, date, item_id, item_name, type, employee_id, status, return_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Date, r.ItemID, r.ItemName, r.Type, r.EmployeeID, string(r.Status), r.ReturnDate,
	)
	if err != nil {
		return fmt.Errorf("inserting reservation %s: %w", r.ID, err)
	}
	return nil
}

// nextReservationID increments the counter until it yields an unused ID.
func nextReservationID(ctx context.Context, tx *sql.Tx) (string, error) {
	counter, err := readCounter(ctx, tx)
	if err != nil {
		return "", err
	}

	for {
		counter++
		id := "R" + strconv.Itoa(counter)

		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations WHERE id = ?`, id,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking reservation id: %w", err)
		}
		if exists == 0 {
			return id, writeCounter(ctx, tx, counter)
		}
	}
}

func readCounter(ctx context.Context, tx *sql.Tx) (int, error) {
	var value string
	err := tx.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, counterKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return IDBase, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading reservation counter: %w", err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing reservation counter %q: %w", value, err)
	}
	return n, nil
}

func writeCounter(ctx context.Context, tx *sql.Tx, n int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		counterKey, strconv.Itoa(n),
	)
	if err != nil {
		return fmt.Errorf("writing reservation counter: %w", err)
	}
	return nil
}
