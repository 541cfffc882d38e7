package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Analyzer  AnalyzerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the per-analysis Rod browser session.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path. When empty, a fixed
	// candidate list is scanned and the launcher's own resolution (including
	// auto-download) is the fallback.
	BrowserBin string

	// Stealth injects stealth JS into each page before navigation.
	Stealth bool // default: true

	// UserAgent is the fixed user-agent applied to every session.
	UserAgent string

	// WindowSize is the fixed window size flag value.
	WindowSize string // default: "1920,1080"
}

// AnalyzerConfig controls the analysis pipeline against the rating service.
type AnalyzerConfig struct {
	// TargetURL is the rating service's page. Every analysis starts here,
	// never at the analyzed URL itself.
	TargetURL string // default: "https://www.ratemysite.xyz/"

	// Timeout is the ceiling on each bounded wait (input presence,
	// result container, content growth).
	Timeout time.Duration // default: 45s

	// TypePause is the pause after typing the URL, letting client-side
	// validation react before submission.
	TypePause time.Duration // default: 300ms

	// SettleDelay follows the result wait, letting late DOM mutations finish.
	SettleDelay time.Duration // default: 1s

	// MinGrowth is the page-text growth (in characters) that counts as
	// "content loaded" when no result container ever appears.
	MinGrowth int // default: 80

	// SettleGrowth is the larger growth threshold used for the final
	// content-settle check.
	SettleGrowth int // default: 120

	// PollInterval is the cadence of the presence/growth polling loops.
	PollInterval time.Duration // default: 500ms
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the per-session result store backing Excel export.
type CacheConfig struct {
	// TTL is how long a finished session's results stay downloadable.
	TTL time.Duration // default: 1h

	// MaxSessions caps the number of live sessions.
	MaxSessions int // default: 500
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
			Host: envOr("RATESCOPE_HOST", "0.0.0.0"),
			Port: envIntOr("RATESCOPE_PORT", 8080),
			Mode: envOr("RATESCOPE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("RATESCOPE_HEADLESS", true),
			NoSandbox:  envBoolOr("RATESCOPE_NO_SANDBOX", true),
			BrowserBin: os.Getenv("RATESCOPE_BROWSER_BIN"),
			Stealth:    envBoolOr("RATESCOPE_STEALTH", true),
			UserAgent: envOr("RATESCOPE_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			WindowSize: envOr("RATESCOPE_WINDOW_SIZE", "1920,1080"),
		},
		Analyzer: AnalyzerConfig{
			TargetURL:    envOr("RATESCOPE_TARGET_URL", "https://www.ratemysite.xyz/"),
			Timeout:      envDurationOr("RATESCOPE_TIMEOUT", 45*time.Second),
			TypePause:    envDurationOr("RATESCOPE_TYPE_PAUSE", 300*time.Millisecond),
			SettleDelay:  envDurationOr("RATESCOPE_SETTLE_DELAY", time.Second),
			MinGrowth:    envIntOr("RATESCOPE_MIN_GROWTH", 80),
			SettleGrowth: envIntOr("RATESCOPE_SETTLE_GROWTH", 120),
			PollInterval: envDurationOr("RATESCOPE_POLL_INTERVAL", 500*time.Millisecond),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("RATESCOPE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("RATESCOPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RATESCOPE_RATE_RPS", 2.0),
			Burst:             envIntOr("RATESCOPE_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			TTL:         envDurationOr("RATESCOPE_SESSION_TTL", time.Hour),
			MaxSessions: envIntOr("RATESCOPE_MAX_SESSIONS", 500),
		},
		Log: LogConfig{
			Level:  envOr("RATESCOPE_LOG_LEVEL", "info"),
			Format: envOr("RATESCOPE_LOG_FORMAT", "json"),
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

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
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
