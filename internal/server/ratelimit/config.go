package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for one route pattern. Pattern segments in braces match any
// single path segment, so "/sessions/{id}/interview/say" covers every session.
type EndpointConfig struct {
	Pattern string
	Method  string
	Limit   int           // requests per window
	Window  time.Duration // refill window
	Burst   int           // bucket capacity; Limit when 0
}

// LoadConfig builds the limiter configuration from environment lookups. getenv is usually
// os.Getenv.
func LoadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the routes that call the chat model most tightly.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed, once per session
		{Pattern: "/sessions", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Pattern: "/sessions/{id}/answers/submit", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Pattern: "/sessions/{id}/interview/end", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Model-backed, once per turn
		{Pattern: "/sessions/{id}/interview/say", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Pattern: "/sessions/{id}/interview/capture", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Recognition results stream in quickly while the candidate speaks
		{Pattern: "/sessions/{id}/interview/updates", Method: "POST", Limit: 1200, Window: time.Minute, Burst: 100},

		// Reads and other writes use the default limit. /health and /metrics are unlimited.
	}
}

type envReader func(string) string

func (e envReader) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e envReader) integer(key string, def int) int {
	if v, err := strconv.Atoi(e.str(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if v, err := strconv.ParseBool(e.str(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.str(key, "")); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
