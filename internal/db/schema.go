package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Dates are stored as YYYY-MM-DD text; an absent return date is ''.
// Reservations are listed by seq descending, so the newest row comes first.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    image      BLOB,
    image_mime TEXT
);

CREATE TABLE IF NOT EXISTS reservations (
    seq         INTEGER PRIMARY KEY,
    id          TEXT NOT NULL UNIQUE,
    date        TEXT NOT NULL,
    item_id     TEXT NOT NULL REFERENCES items(id),
    item_name   TEXT NOT NULL,
    type        TEXT NOT NULL,
    employee_id TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'Pending',
    return_date TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_reservations_employee_item_date
    ON reservations(employee_id, item_id, date);

CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS used_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
