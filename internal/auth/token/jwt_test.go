package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := New("test-secret", "shop-manager", time.Hour)
	uid := uuid.New()

	raw, issued, err := m.Issue(context.Background(), uid, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.NotEmpty(t, issued.JTI)

	parsed, err := m.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, issued.JTI, parsed.JTI)
	assert.Equal(t, uid, parsed.UserID)
	assert.Equal(t, "admin", parsed.Login)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt, 5*time.Second)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := New("secret-a", "shop-manager", time.Hour)
	raw, _, err := issuer.Issue(context.Background(), uuid.New(), "admin")
	require.NoError(t, err)

	verifier := New("secret-b", "shop-manager", time.Hour)
	_, err = verifier.Parse(context.Background(), raw)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := New("test-secret", "shop-manager", -time.Minute)
	raw, _, err := m.Issue(context.Background(), uuid.New(), "admin")
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), raw)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := New("test-secret", "shop-manager", time.Hour)
	_, err := m.Parse(context.Background(), "not.a.token")
	assert.Error(t, err)
}
