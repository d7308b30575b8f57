package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Referrer  ReferrerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// TrustedProxies lists the proxy CIDRs whose X-Forwarded-For is believed
	// when resolving the client IP. Empty trusts none.
	TrustedProxies []string
}

// ReferrerConfig controls referrer lookup and dereferencing.
type ReferrerConfig struct {
	// QueryName is the fallback query parameter.
	QueryName string // default: "ref"

	// DisableQuery turns the query fallback off.
	DisableQuery bool // default: false

	// Errors reports lookup and fetch failures to the client. When false
	// the endpoint answers 200 with fetched=false instead.
	Errors bool // default: true

	// BlockPrivate refuses to dereference internal addresses.
	BlockPrivate bool // default: true

	// ChromeTLS dials TLS with a Chrome fingerprint.
	ChromeTLS bool // default: false

	// MaxBodyBytes caps the referrer page size.
	MaxBodyBytes int64 // default: 10 MB
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           envOr("DEREF_HOST", "0.0.0.0"),
			Port:           envIntOr("DEREF_PORT", 8080),
			Mode:           envOr("DEREF_MODE", "release"),
			TrustedProxies: envSliceOr("DEREF_TRUSTED_PROXIES", nil),
		},
		Referrer: ReferrerConfig{
			QueryName:    envOr("DEREF_QUERY_NAME", "ref"),
			DisableQuery: envBoolOr("DEREF_DISABLE_QUERY", false),
			Errors:       envBoolOr("DEREF_ERRORS", true),
			BlockPrivate: envBoolOr("DEREF_BLOCK_PRIVATE", true),
			ChromeTLS:    envBoolOr("DEREF_CHROME_TLS", false),
			MaxBodyBytes: envInt64Or("DEREF_MAX_BODY_BYTES", 10<<20),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DEREF_AUTH_ENABLED", true),
			APIKeys: envSliceOr("DEREF_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DEREF_RATE_RPS", 5.0),
			Burst:             envIntOr("DEREF_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("DEREF_LOG_LEVEL", "info"),
			Format: envOr("DEREF_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
