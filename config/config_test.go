package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, "ref", cfg.Referrer.QueryName)
	assert.False(t, cfg.Referrer.DisableQuery)
	assert.True(t, cfg.Referrer.Errors)
	assert.True(t, cfg.Referrer.BlockPrivate)
	assert.False(t, cfg.Referrer.ChromeTLS)
	assert.Equal(t, int64(10<<20), cfg.Referrer.MaxBodyBytes)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DEREF_PORT", "9090")
	t.Setenv("DEREF_QUERY_NAME", "from")
	t.Setenv("DEREF_DISABLE_QUERY", "true")
	t.Setenv("DEREF_ERRORS", "false")
	t.Setenv("DEREF_MAX_BODY_BYTES", "2048")
	t.Setenv("DEREF_API_KEYS", " k1, ,k2 ")
	t.Setenv("DEREF_TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")
	t.Setenv("DEREF_RATE_RPS", "0.5")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from", cfg.Referrer.QueryName)
	assert.True(t, cfg.Referrer.DisableQuery)
	assert.False(t, cfg.Referrer.Errors)
	assert.Equal(t, int64(2048), cfg.Referrer.MaxBodyBytes)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Equal(t, 0.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DEREF_PORT", "eighty")
	t.Setenv("DEREF_ERRORS", "maybe")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Referrer.Errors)
}
