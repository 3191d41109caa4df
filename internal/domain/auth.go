package domain

import (
	"context"
	"time"
)

type Token = string

type TokenClaims struct {
	JTI       string
	UserID    UserID
	Login     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

type TokenManager interface {
	Issue(ctx context.Context, userID UserID, login string) (Token, TokenClaims, error)
	Parse(ctx context.Context, raw Token) (TokenClaims, error)
}

// Revocation list for logged-out tokens (Redis-backed).
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
