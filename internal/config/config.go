package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with INVENTORY_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Store          string        // "memory" | "redis" | "sqlite"
	SQLitePath     string        // database file when Store is sqlite
	MaxImportBytes int64         // upper bound of an import request body
	DueWindow      time.Duration // how far ahead a due date counts as expiring
	ImportFile     string        // optional JSON/YAML file seeding an empty store at startup

	SnapshotDir       string        // empty = snapshots disabled
	SnapshotInterval  time.Duration // interval between CSV snapshots (default: 24h)
	SnapshotRetention time.Duration // age after which snapshots are pruned (default: 30 days)

	AdminCIDRS      []string // optional, restrict readyz/infra/snapshot to these IPs/CIDRs
	TrustProxy      bool     // true => trust X-Forwarded-For headers
	RateLimitBurst  int      // write requests allowed in a burst per client
	RateLimitPerMin int      // write requests refilled per client per minute

	// Redis, only read when Store is redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisKey            string        // key holding the equipment document
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
}

func Load() *Config {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("INVENTORY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: positiveDuration("INVENTORY_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("INVENTORY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("INVENTORY_PRETTY_LOG", true),

		// Storage
		Store:          mustStore("INVENTORY_STORE", StoreMemory),
		SQLitePath:     getenv("INVENTORY_SQLITE_PATH", "data/inventory.db"),
		MaxImportBytes: int64(getenvInt("INVENTORY_MAX_IMPORT_BYTES", 10<<20)),
		DueWindow:      mustDuration("INVENTORY_DUE_WINDOW", 30*24*time.Hour),
		ImportFile:     getenv("INVENTORY_IMPORT_FILE", ""),

		// Snapshots
		SnapshotDir:       getenv("INVENTORY_SNAPSHOT_DIR", ""),
		SnapshotInterval:  positiveDuration("INVENTORY_SNAPSHOT_INTERVAL", 24*time.Hour),
		SnapshotRetention: positiveDuration("INVENTORY_SNAPSHOT_RETENTION", 30*24*time.Hour),

		// Access
		AdminCIDRS:      splitAndTrim(getenv("INVENTORY_ADMIN_CIDRS", "")),
		TrustProxy:      mustBool("INVENTORY_TRUST_PROXY", false),
		RateLimitBurst:  getenvInt("INVENTORY_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("INVENTORY_RATE_LIMIT_PER_MIN", 120),

		// Redis tuning
		RedisKey:            getenv("INVENTORY_REDIS_KEY", "inventory:equipment"),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	if cfg.Store == StoreRedis {
		cfg.RedisAddr = requireEnv("INVENTORY_REDIS_ADDR")
		cfg.RedisUser = getenv("INVENTORY_REDIS_USERNAME", "")
		cfg.RedisPassword = getenv("INVENTORY_REDIS_PASSWORD", "")
		cfg.RedisDB = requireEnvInt("INVENTORY_REDIS_DB")
	}

	if cfg.MaxImportBytes <= 0 {
		panic(fmt.Sprintf("❌ FATAL: INVENTORY_MAX_IMPORT_BYTES must be > 0, got %d", cfg.MaxImportBytes))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
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

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func mustStore(key, def string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	switch v {
	case StoreMemory, StoreRedis, StoreSQLite:
		return v
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %q (want memory, redis or sqlite)", key, v))
	}
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

// positiveDuration is mustDuration for values used as tickers or
// timeouts: zero or negative falls back to def.
func positiveDuration(key string, def time.Duration) time.Duration {
	if d := mustDuration(key, def); d > 0 {
		return d
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
