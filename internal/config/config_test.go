package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 100, cfg.RateLimit.Limit)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 1, cfg.TrustedProxies)
	assert.False(t, cfg.Vault.StrictDelete)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com,")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("AUTH_RATE_WINDOW", "1m")
	t.Setenv("VAULT_STRICT_DELETE", "true")
	t.Setenv("TRUST_PROXY", "2")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Vault.StrictDelete)
	assert.Equal(t, 2, cfg.TrustedProxies)
}

func TestLoad_DayDurations(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY", "30d")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
}

func TestLoad_InvalidValues(t *testing.T) {
	testCases := []struct {
		key   string
		value string
	}{
		{"JWT_EXPIRY", "forever"},
		{"JWT_EXPIRY", "0d"},
		{"JWT_EXPIRY", "-1h"},
		{"AUTH_RATE_WINDOW", "soon"},
		{"AUTH_RATE_LIMIT", "-3"},
		{"TRUST_PROXY", "yes"},
		{"VAULT_STRICT_DELETE", "maybe"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv(tc.key, tc.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tc.key)
		})
	}
}

func TestLoad_MissingSecretPanics(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { _, _ = Load() })
}
