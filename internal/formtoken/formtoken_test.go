package formtoken

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erazemk/izposoja/internal/db"
)

func newSigner(t *testing.T, secret string) *Signer {
	t.Helper()
	s, err := NewSigner(secret)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return s
}

func TestIssueAndValidate(t *testing.T) {
	s := newSigner(t, "test-secret")

	token, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Purpose != Purpose {
		t.Errorf("expected purpose %q, got %q", Purpose, claims.Purpose)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}

	other, _ := s.Issue()
	otherClaims, _ := s.Validate(other)
	if otherClaims.ID == claims.ID {
		t.Error("expected unique token ids")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _ := newSigner(t, "secret1").Issue()

	if _, err := newSigner(t, "secret2").Validate(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateInvalid(t *testing.T) {
	if _, err := newSigner(t, "secret").Validate("not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateExpired(t *testing.T) {
	s := newSigner(t, "secret")
	issued := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }

	token, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	s.now = func() time.Time { return issued.Add(TokenExpiry - time.Minute) }
	if _, err := s.Validate(token); err != nil {
		t.Errorf("expected token to be valid before expiry: %v", err)
	}

	s.now = func() time.Time { return issued.Add(TokenExpiry + time.Minute) }
	if _, err := s.Validate(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestNewSignerEmptySecret(t *testing.T) {
	if _, err := NewSigner(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestRedeemOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	s := newSigner(t, "secret")

	token, _ := s.Issue()
	if err := s.Redeem(ctx, database, token); err != nil {
		t.Fatalf("first Redeem: %v", err)
	}
	if err := s.Redeem(ctx, database, token); !errors.Is(err, ErrTokenUsed) {
		t.Errorf("expected ErrTokenUsed, got %v", err)
	}

	other, _ := s.Issue()
	if err := s.Redeem(ctx, database, other); err != nil {
		t.Errorf("Redeem of a fresh token: %v", err)
	}

	if err := s.Redeem(ctx, database, "garbage"); err == nil || errors.Is(err, ErrTokenUsed) {
		t.Errorf("expected validation error, got %v", err)
	}
}
