package profile

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Defaults applied by Validate.
const (
	DefaultAddr               = "0.0.0.0"
	DefaultPort               = 3000
	DefaultRateLimitPerMinute = 30
	DefaultCacheSize          = 200
	DefaultCacheTTL           = 60 * time.Second
	DefaultRequestTimeout     = 10 * time.Second
	DefaultVersion            = "0.1.0"
)

// Profile is the configuration to start the travel server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string
	// Commit is the VCS revision the binary was built from
	Commit string
	// LogLevel is one of debug, info, warn, error
	LogLevel string

	MapsAPIKey string // TRAVELTIME_MAPS_API_KEY (legacy: MAPS_API_KEY, GOOGLE_MAPS_API_KEY)
	MockMode   bool   // TRAVELTIME_MOCK_MODE (legacy: MOCK_MODE); forced on when no key is set

	RateLimitPerMinute int           // TRAVELTIME_RATE_LIMIT_MAX (legacy: RATE_LIMIT_MAX)
	CacheSize          int           // TRAVELTIME_CACHE_SIZE
	CacheTTL           time.Duration // TRAVELTIME_CACHE_TTL
	RequestTimeout     time.Duration // TRAVELTIME_REQUEST_TIMEOUT
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasMapsKey reports whether a routing provider key is configured.
func (p *Profile) HasMapsKey() bool {
	return p.MapsAPIKey != ""
}

// FromEnv loads configuration not covered by command-line flags.
// Supports both TRAVELTIME_* (new) and the legacy unprefixed names.
func (p *Profile) FromEnv() {
	// Helper to get env value with legacy fallbacks
	// Skips empty values to allow defaults to take effect
	getEnvWithFallback := func(keys ...string) string {
		for _, key := range keys {
			if val := os.Getenv(key); val != "" {
				return val
			}
		}
		return ""
	}

	getIntEnv := func(keys ...string) int {
		n, err := strconv.Atoi(getEnvWithFallback(keys...))
		if err != nil {
			return 0
		}
		return n
	}

	if p.MapsAPIKey == "" {
		p.MapsAPIKey = getEnvWithFallback("TRAVELTIME_MAPS_API_KEY", "MAPS_API_KEY", "GOOGLE_MAPS_API_KEY")
	}
	if !p.MockMode {
		p.MockMode = getEnvWithFallback("TRAVELTIME_MOCK_MODE", "MOCK_MODE") == "true"
	}
	if p.Version == "" {
		p.Version = getEnvWithFallback("TRAVELTIME_VERSION", "APP_VERSION")
	}
	if p.Commit == "" {
		p.Commit = getEnvWithFallback("TRAVELTIME_COMMIT", "COMMIT_SHA")
	}
	if p.LogLevel == "" {
		p.LogLevel = getEnvWithFallback("TRAVELTIME_LOG_LEVEL", "LOG_LEVEL")
	}
	if p.RateLimitPerMinute == 0 {
		p.RateLimitPerMinute = getIntEnv("TRAVELTIME_RATE_LIMIT_MAX", "RATE_LIMIT_MAX")
	}
	if p.CacheSize == 0 {
		p.CacheSize = getIntEnv("TRAVELTIME_CACHE_SIZE")
	}
	if p.CacheTTL == 0 {
		if d, err := time.ParseDuration(getEnvWithFallback("TRAVELTIME_CACHE_TTL")); err == nil {
			p.CacheTTL = d
		}
	}
	if p.RequestTimeout == 0 {
		if d, err := time.ParseDuration(getEnvWithFallback("TRAVELTIME_REQUEST_TIMEOUT")); err == nil {
			p.RequestTimeout = d
		}
	}
}

// Validate normalizes the profile and fills defaults.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}
	if p.Addr == "" {
		p.Addr = DefaultAddr
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}

	if p.RateLimitPerMinute < 0 {
		return errors.Errorf("invalid rate limit %d", p.RateLimitPerMinute)
	}
	if p.RateLimitPerMinute == 0 {
		p.RateLimitPerMinute = DefaultRateLimitPerMinute
	}
	if p.CacheSize <= 0 {
		p.CacheSize = DefaultCacheSize
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = DefaultCacheTTL
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = DefaultRequestTimeout
	}

	if !p.HasMapsKey() && !p.MockMode {
		slog.Warn("no maps API key configured, serving mock travel estimates")
		p.MockMode = true
	}

	return nil
}
