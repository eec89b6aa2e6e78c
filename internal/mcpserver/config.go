package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/kvapi/internal/naming"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Inspect tool defaults.
	InspectLimit int
	MaxLimit     int

	// Generate tool defaults.
	Package string
	Strict  bool

	// MaxInlineSize bounds inline description content, in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from KVAPI_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("KVAPI_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("KVAPI_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("KVAPI_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("KVAPI_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("KVAPI_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		InspectLimit:       envInt("KVAPI_MCP_INSPECT_LIMIT", 100),
		MaxLimit:           envInt("KVAPI_MCP_MAX_LIMIT", 1000),
		Package:            envPackage("KVAPI_MCP_PACKAGE"),
		Strict:             envBool("KVAPI_MCP_STRICT", false),
		MaxInlineSize:      int64(envInt("KVAPI_MCP_MAX_INLINE_SIZE", 1024*1024)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

// envPackage reads a default Go package name. Values that are not Go
// identifiers are ignored so that generation falls back to the name derived
// from the description.
func envPackage(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if !naming.IsIdentifier(v) {
		slog.Warn("invalid package env var, ignoring", "key", key, "value", v)
		return ""
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
