package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearKVAPIEnv clears all KVAPI_MCP_* env vars to isolate tests from the ambient environment.
func clearKVAPIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KVAPI_MCP_CACHE_ENABLED", "KVAPI_MCP_CACHE_MAX_SIZE",
		"KVAPI_MCP_CACHE_FILE_TTL", "KVAPI_MCP_CACHE_CONTENT_TTL",
		"KVAPI_MCP_CACHE_SWEEP_INTERVAL",
		"KVAPI_MCP_INSPECT_LIMIT", "KVAPI_MCP_MAX_LIMIT",
		"KVAPI_MCP_PACKAGE", "KVAPI_MCP_STRICT", "KVAPI_MCP_MAX_INLINE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearKVAPIEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.InspectLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Empty(t, c.Package)
	assert.False(t, c.Strict)
	assert.Equal(t, int64(1024*1024), c.MaxInlineSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearKVAPIEnv(t)
	t.Setenv("KVAPI_MCP_CACHE_ENABLED", "false")
	t.Setenv("KVAPI_MCP_CACHE_MAX_SIZE", "50")
	t.Setenv("KVAPI_MCP_CACHE_FILE_TTL", "30m")
	t.Setenv("KVAPI_MCP_CACHE_CONTENT_TTL", "10m")
	t.Setenv("KVAPI_MCP_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("KVAPI_MCP_INSPECT_LIMIT", "20")
	t.Setenv("KVAPI_MCP_MAX_LIMIT", "500")
	t.Setenv("KVAPI_MCP_PACKAGE", "exchange")
	t.Setenv("KVAPI_MCP_STRICT", "true")
	t.Setenv("KVAPI_MCP_MAX_INLINE_SIZE", "2048")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 20, c.InspectLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, "exchange", c.Package)
	assert.True(t, c.Strict)
	assert.Equal(t, int64(2048), c.MaxInlineSize)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, c *serverConfig)
	}{
		{"bool", "KVAPI_MCP_CACHE_ENABLED", "maybe", func(t *testing.T, c *serverConfig) { assert.True(t, c.CacheEnabled) }},
		{"negative int", "KVAPI_MCP_INSPECT_LIMIT", "-5", func(t *testing.T, c *serverConfig) { assert.Equal(t, 100, c.InspectLimit) }},
		{"non-numeric int", "KVAPI_MCP_MAX_LIMIT", "lots", func(t *testing.T, c *serverConfig) { assert.Equal(t, 1000, c.MaxLimit) }},
		{"duration", "KVAPI_MCP_CACHE_FILE_TTL", "soon", func(t *testing.T, c *serverConfig) { assert.Equal(t, 15*time.Minute, c.CacheFileTTL) }},
		{"zero duration", "KVAPI_MCP_CACHE_SWEEP_INTERVAL", "0s", func(t *testing.T, c *serverConfig) { assert.Equal(t, 60*time.Second, c.CacheSweepInterval) }},
		{"keyword package", "KVAPI_MCP_PACKAGE", "func", func(t *testing.T, c *serverConfig) { assert.Empty(t, c.Package) }},
		{"dashed package", "KVAPI_MCP_PACKAGE", "my-api", func(t *testing.T, c *serverConfig) { assert.Empty(t, c.Package) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearKVAPIEnv(t)
			t.Setenv(tt.key, tt.value)
			tt.check(t, loadConfig())
		})
	}
}
