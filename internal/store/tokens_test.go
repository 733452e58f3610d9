package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/db"
)

func TestUseToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := UseToken(ctx, database, "jti-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("UseToken: %v", err)
	}
	if !first {
		t.Error("expected first use to succeed")
	}

	second, err := UseToken(ctx, database, "jti-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("second UseToken: %v", err)
	}
	if second {
		t.Error("expected second use to be rejected")
	}

	// Different JTI is unaffected.
	other, err := UseToken(ctx, database, "jti-2", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("UseToken jti-2: %v", err)
	}
	if !other {
		t.Error("expected different token to be usable")
	}
}
