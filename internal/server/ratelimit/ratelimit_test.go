package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnabledLimiter(routes map[string]Tier, def Tier) *Limiter {
	l := New(Config{Enabled: true, Routes: routes, Default: def})
	return l
}

func TestTierForRoutes(t *testing.T) {
	cfg := Config{Routes: DefaultRoutes(), Default: TierRead}

	assert.Equal(t, "generation", cfg.tierFor("POST", "/v1/rewrite").Name)
	assert.Equal(t, "scoring", cfg.tierFor("POST", "/v1/analyze").Name)
	assert.Equal(t, "scoring", cfg.tierFor("POST", "/v1/rewrite-plan").Name)
	assert.Equal(t, "write", cfg.tierFor("POST", "/v1/feedback").Name)
	assert.Equal(t, "unlimited", cfg.tierFor("GET", "/health").Name)
	assert.Equal(t, "read", cfg.tierFor("GET", "/v1/insights").Name)
}

func TestAllowConsumesBurstThenDenies(t *testing.T) {
	l := newEnabledLimiter(map[string]Tier{
		"POST /v1/analyze": {Name: "scoring", Limit: 5, Window: time.Hour, Burst: 3},
	}, TierRead)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("client-a", "/v1/analyze", "POST")
		require.True(t, allowed, "request %d should be allowed", i)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := l.Allow("client-a", "/v1/analyze", "POST")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.True(t, info.ResetTime.After(time.Now()))
}

func TestAllowIsolatesClients(t *testing.T) {
	l := newEnabledLimiter(map[string]Tier{
		"POST /v1/rewrite": {Name: "generation", Limit: 2, Window: time.Hour, Burst: 1},
	}, TierRead)
	defer l.Stop()

	allowed, _ := l.Allow("client-a", "/v1/rewrite", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("client-a", "/v1/rewrite", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("client-b", "/v1/rewrite", "POST")
	assert.True(t, allowed, "one client's exhaustion must not affect another")
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := newEnabledLimiter(map[string]Tier{
		"POST /v1/feedback": {Name: "write", Limit: 100, Window: time.Second, Burst: 1},
	}, TierRead)
	defer l.Stop()

	allowed, _ := l.Allow("client-a", "/v1/feedback", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("client-a", "/v1/feedback", "POST")
	require.False(t, allowed)

	// 100 tokens per second refills one within 50ms.
	time.Sleep(50 * time.Millisecond)
	allowed, _ = l.Allow("client-a", "/v1/feedback", "POST")
	assert.True(t, allowed)
}

func TestAllowUnlimitedHealth(t *testing.T) {
	l := New(Config{Enabled: true})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("client-a", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestAllowDefaultTierForUnmappedRoute(t *testing.T) {
	l := newEnabledLimiter(DefaultRoutes(), Tier{Name: "read", Limit: 2, Window: time.Hour, Burst: 2})
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("client-a", "/v1/insights", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("client-a", "/v1/insights", "GET")
	assert.False(t, allowed)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	l := New(Config{Enabled: false})

	for i := 0; i < 1000; i++ {
		allowed, _ := l.Allow("client-a", "/v1/rewrite", "POST")
		require.True(t, allowed)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := New(Config{Enabled: true})
	l.Stop()
	l.Stop()
}

func TestFromEnvOverridesDefaultTier(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "7")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "2m")

	cfg := FromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 7, cfg.Default.Limit)
	assert.Equal(t, 2*time.Minute, cfg.Default.Window)
	assert.Equal(t, "generation", cfg.Routes["POST /v1/rewrite"].Name)
}

func TestFromEnvDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, FromEnv().Enabled)
}
