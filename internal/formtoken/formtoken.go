// Package formtoken issues and redeems the signed single-use tokens embedded
// in the reservation form.
package formtoken

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/erazemk/izposoja/internal/store"
)

// Purpose is the purpose claim of reservation form tokens.
const Purpose = "reservation-form"

// TokenExpiry is how long a rendered form can be submitted.
const TokenExpiry = 30 * time.Minute

// ErrTokenUsed is returned when a token has already been redeemed.
var ErrTokenUsed = errors.New("form token already used")

// Claims are the claims of a form token.
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Signer issues and validates form tokens.
type Signer struct {
	key []byte
	now func() time.Time
}

// NewSigner derives the signing key from secret.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("form token secret is empty")
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("izposoja "+Purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving form token key: %w", err)
	}
	return &Signer{key: key, now: time.Now}, nil
}

// Issue creates a new token with a unique ID.
func (s *Signer) Issue() (string, error) {
	now := s.now()
	claims := Claims{
		Purpose: Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing form token: %w", err)
	}
	return signed, nil
}

// Validate parses and checks a token, returning its claims.
func (s *Signer) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing form token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid form token")
	}
	if claims.Purpose != Purpose || claims.ID == "" {
		return nil, fmt.Errorf("form token has wrong purpose %q", claims.Purpose)
	}
	return claims, nil
}

// Redeem validates a token and marks it as spent. A token can be redeemed
// once; later attempts return ErrTokenUsed.
func (s *Signer) Redeem(ctx context.Context, db *sql.DB, tokenStr string) error {
	claims, err := s.Validate(tokenStr)
	if err != nil {
		return err
	}

	ok, err := store.UseToken(ctx, db, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTokenUsed
	}
	return nil
}
