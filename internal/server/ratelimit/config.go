package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Tier is one cost class of endpoints: Limit requests per Window, with an
// optional smaller Burst cap on how many may arrive back to back.
type Tier struct {
	Name   string
	Limit  int
	Window time.Duration
	Burst  int
}

// burst returns the bucket capacity, defaulting to the full limit.
func (t Tier) burst() int {
	if t.Burst > 0 {
		return t.Burst
	}
	return t.Limit
}

// Cost tiers, ordered by backend expense.
var (
	// TierGeneration covers endpoints that call the generation model.
	TierGeneration = Tier{Name: "generation", Limit: 30, Window: time.Hour, Burst: 5}
	// TierScoring covers endpoints that embed resume and JD text.
	TierScoring = Tier{Name: "scoring", Limit: 60, Window: time.Hour, Burst: 10}
	// TierWrite covers feedback ingestion, a single database insert.
	TierWrite = Tier{Name: "write", Limit: 300, Window: time.Minute, Burst: 30}
	// TierRead covers everything not mapped to a costlier tier.
	TierRead = Tier{Name: "read", Limit: 1000, Window: time.Minute}
	// TierUnlimited exempts an endpoint from limiting (Limit <= 0).
	TierUnlimited = Tier{Name: "unlimited"}
)

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	Routes          map[string]Tier // "METHOD path" -> tier
	Default         Tier            // tier for unmapped routes
	CleanupInterval time.Duration   // how often idle buckets are swept
	MaxIdle         time.Duration   // idle time before a bucket is dropped
}

// DefaultRoutes maps the API surface to its cost tiers. Health checks are
// exempt so orchestrators can probe freely.
func DefaultRoutes() map[string]Tier {
	return map[string]Tier{
		"POST /v1/rewrite":      TierGeneration,
		"POST /v1/analyze":      TierScoring,
		"POST /v1/gaps":         TierScoring,
		"POST /v1/rewrite-plan": TierScoring,
		"POST /v1/feedback":     TierWrite,
		"GET /health":           TierUnlimited,
	}
}

// tierFor resolves the tier for a route, falling back to the default.
func (c Config) tierFor(method, path string) Tier {
	if tier, ok := c.Routes[method+" "+path]; ok {
		return tier
	}
	return c.Default
}

// FromEnv builds the limiter configuration from environment variables,
// keeping the built-in tier table.
func FromEnv() Config {
	cfg := Config{
		Enabled:         envBool("RATE_LIMIT_ENABLED", true),
		Routes:          DefaultRoutes(),
		Default:         TierRead,
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		MaxIdle:         time.Hour,
	}
	if limit := envInt("RATE_LIMIT_DEFAULT_LIMIT", 0); limit > 0 {
		cfg.Default.Limit = limit
	}
	if window := envDuration("RATE_LIMIT_DEFAULT_WINDOW", 0); window > 0 {
		cfg.Default.Window = window
	}
	return cfg
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
