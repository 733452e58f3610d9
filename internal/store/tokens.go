package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UseToken records a form token's JTI as spent. It returns false if the token
// had already been used.
func UseToken(ctx context.Context, db *sql.DB, jti string, expiresAt time.Time) (bool, error) {
	result, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO used_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, expiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("using token: %w", err)
	}

	// Opportunistically clean up expired entries.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM used_tokens WHERE expires_at < ?`, time.Now(),
	)

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("using token: %w", err)
	}
	return n == 1, nil
}
