package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// GetFormSecret retrieves the secret used to sign reservation form tokens.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT so concurrent callers agree on one value.
func GetFormSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating form secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('form_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing form_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'form_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying form_secret: %w", err)
	}

	return secret, nil
}
