package blacklist

import (
	"context"
	"time"
)

// KV is the slice of the cache surface the blacklist needs.
type KV interface {
	SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type Store struct {
	kv     KV
	prefix string
}

func NewStore(kv KV, prefix string) *Store {
	if prefix == "" {
		prefix = "jti:"
	}
	return &Store{kv: kv, prefix: prefix}
}

func (s *Store) key(jti string) string { return s.prefix + jti }

// Revoke marks a jti revoked until exp (TTL = exp-now).
func (s *Store) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute
	}
	_, err := s.kv.SetNX(ctx, s.key(jti), []byte("1"), ttl)
	return err
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.kv.Exists(ctx, s.key(jti))
}
