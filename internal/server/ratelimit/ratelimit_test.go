package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/optimize", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4", "/optimize", "POST")
		assert.True(t, allowed, "request %d", i)
		assert.Equal(t, 20, info.Limit)
	}

	allowed, info := limiter.Allow("1.2.3.4", "/optimize", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/optimize", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.1.1.1", "/optimize", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.1.1.1", "/optimize", "POST")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("2.2.2.2", "/optimize", "POST")
	assert.True(t, allowed)
}

func TestLimiter_EndpointsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/optimize", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
			{Path: "/detect", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.1.1.1", "/optimize", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.1.1.1", "/optimize", "POST")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("1.1.1.1", "/detect", "POST")
	assert.True(t, allowed)
}

func TestLimiter_RefillOverTime(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			// 100 per second refills fast enough to observe in a test.
			{Path: "/x", Method: "POST", Limit: 100, Window: time.Second, Burst: 1},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("c", "/x", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/x", "POST")
	require.False(t, allowed)

	time.Sleep(50 * time.Millisecond)
	allowed, _ = limiter.Allow("c", "/x", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("c", "/optimize", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:   true,
		Whitelist: map[string]bool{"10.0.0.1": true},
		Blacklist: map[string]bool{"10.0.0.2": true},
		EndpointConfigs: []EndpointConfig{
			{Path: "/x", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/x", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/x", "POST")
	assert.False(t, allowed)
}

func TestLimiter_DefaultLimitForUnknownEndpoints(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("c", "/anything", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 2, info.Limit)
	limiter.Allow("c", "/anything", "GET")
	allowed, _ = limiter.Allow("c", "/anything", "GET")
	assert.False(t, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	t.Run("health is unlimited", func(t *testing.T) {
		config := MatchEndpoint("/health", "GET", configs)
		require.NotNil(t, config)
		assert.Equal(t, 0, config.Limit)
	})

	t.Run("exact match", func(t *testing.T) {
		config := MatchEndpoint("/optimize", "POST", configs)
		require.NotNil(t, config)
		assert.Equal(t, 20, config.Limit)
		assert.Equal(t, time.Hour, config.Window)
	})

	t.Run("prefix match", func(t *testing.T) {
		config := MatchEndpoint("/postings/3f1e0a10-0000-0000-0000-000000000000", "DELETE", configs)
		require.NotNil(t, config)
		assert.Equal(t, "/postings/", config.Path)
	})

	t.Run("method must match", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/optimize", "GET", configs))
	})

	t.Run("no match falls back to nil", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/postings", "GET", configs))
	})
}

func TestCleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	limiter.Allow("c", "/x", "GET")
	require.Len(t, limiter.buckets, 1)

	// The bucket was just used, so an hourly cutoff keeps it.
	limiter.cleanupBuckets()
	assert.Len(t, limiter.buckets, 1)

	// Force the bucket to look idle, then clean again.
	for _, b := range limiter.buckets {
		b.mu.Lock()
		b.lastAccess = time.Now().Add(-2 * time.Hour)
		b.mu.Unlock()
	}
	limiter.cleanupBuckets()
	assert.Empty(t, limiter.buckets)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1, 10.0.0.5")

	config := LoadConfig()
	assert.True(t, config.Enabled)
	assert.Equal(t, 42, config.DefaultLimit)
	assert.Equal(t, 30*time.Second, config.DefaultWindow)
	assert.True(t, config.Whitelist["127.0.0.1"])
	assert.True(t, config.Whitelist["10.0.0.5"])
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	config := LoadConfig()
	assert.False(t, config.Enabled)
}
