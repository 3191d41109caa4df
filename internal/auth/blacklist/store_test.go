package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data map[string]time.Duration
}

func (f *fakeKV) SetNX(_ context.Context, key string, _ []byte, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = ttl
	return true, nil
}

func (f *fakeKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func TestRevokeAndCheck(t *testing.T) {
	kv := &fakeKV{data: map[string]time.Duration{}}
	s := NewStore(kv, "jti:")

	revoked, err := s.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(context.Background(), "abc", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	// entries live under the prefix, away from the response cache keyspace
	_, ok := kv.data["jti:abc"]
	assert.True(t, ok)
}

func TestRevokeExpiredTokenGetsFloorTTL(t *testing.T) {
	kv := &fakeKV{data: map[string]time.Duration{}}
	s := NewStore(kv, "")

	require.NoError(t, s.Revoke(context.Background(), "old", time.Now().Add(-time.Hour)))
	assert.Equal(t, time.Minute, kv.data["jti:old"])
}
