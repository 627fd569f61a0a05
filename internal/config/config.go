package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr      string        // ex: ":4199"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	RegistryFile string // path to the persisted registry JSON file
	ManifestFile string // path to apps.yaml (optional, empty = no manifest seed)
	BasePort     int    // start of the port allocation range for a fresh registry

	ProbeTimeout   time.Duration // bound on bind probes and liveness checks
	SweepInterval  time.Duration // interval between liveness sweeps
	ReloadInterval time.Duration // interval to re-apply the manifest

	// Redis stats mirror (optional, empty addr = disabled)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict mutations to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("HUB_LISTEN_ADDR", ":4199"),
		ShutdownTimeout: mustDuration("HUB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HUB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HUB_PRETTY_LOG", true),

		// Registry
		RegistryFile: getenv("HUB_REGISTRY_FILE", "/app/data/registry.json"),
		ManifestFile: getenv("HUB_MANIFEST_FILE", ""), // Optional, empty = no manifest
		BasePort:     getenvInt("HUB_BASE_PORT", 4200),

		// Probing
		ProbeTimeout:   mustDuration("HUB_PROBE_TIMEOUT", 2*time.Second),
		SweepInterval:  mustDuration("HUB_SWEEP_INTERVAL", 30*time.Second),
		ReloadInterval: mustDuration("HUB_MANIFEST_RELOAD_INTERVAL", 1*time.Hour),

		// Redis settings (stats mirror, optional)
		RedisAddr:           getenv("HUB_REDIS_ADDR", ""),
		RedisUser:           getenv("HUB_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("HUB_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("HUB_REDIS_DB", 0),
		RedisDT:             mustDuration("HUB_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("HUB_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("HUB_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("HUB_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("HUB_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("HUB_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("HUB_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("HUB_REDIS_PING_TIMEOUT", 5*time.Second),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("HUB_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("HUB_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("HUB_TRUST_PROXY", false),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
