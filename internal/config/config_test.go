package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.True(t, cfg.CachingEnabled)
	assert.False(t, cfg.CachePublicOnly)
	assert.Equal(t, "shop", cfg.DBScheme)
	assert.Equal(t, "shop-manager", cfg.AuthJWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.AuthTokenTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CACHING_ENABLED", "false")
	t.Setenv("CACHE_PUBLIC_ONLY", "true")
	t.Setenv("AUTH_TOKEN_TTL", "1h")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.CachingEnabled)
	assert.True(t, cfg.CachePublicOnly)
	assert.Equal(t, time.Hour, cfg.AuthTokenTTL)
}

func TestLoadFromEnvRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestStringMasksSecrets(t *testing.T) {
	cfg := &Config{
		DBPassword:    "db-pass",
		RedisPassword: "redis-pass",
		S3SecretKey:   "s3-secret",
		AuthJWTSecret: "jwt-secret",
	}
	out := cfg.String()

	for _, secret := range []string{"db-pass", "redis-pass", "s3-secret", "jwt-secret"} {
		assert.False(t, strings.Contains(out, secret), "secret %q leaked into String()", secret)
	}
	assert.Contains(t, out, "********")
}
