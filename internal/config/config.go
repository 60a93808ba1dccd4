// Package config loads buyer-agent settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// ValidStores are the accepted BUYER_AGENT_STORE values.
var ValidStores = map[string]bool{
	StoreMemory: true,
	StoreSQLite: true,
	StoreRedis:  true,
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config holds all runtime settings.
type Config struct {
	Addr          string
	Store         string
	DBPath        string
	StaticDir     string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	RateRPS       int
	RateBurst     int
	LogLevel      string
	LogFormat     string
	Redis         RedisConfig
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then builds a Config.
// An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("BUYER_AGENT_ADDR", ":8000"),
		Store:     strings.ToLower(getEnv("BUYER_AGENT_STORE", StoreMemory)),
		DBPath:    getEnv("BUYER_AGENT_DB", DefaultDBPath()),
		StaticDir: getEnv("BUYER_AGENT_STATIC_DIR", ""),
		RateRPS:   getEnvInt("BUYER_AGENT_RATE_RPS", 10),
		RateBurst: getEnvInt("BUYER_AGENT_RATE_BURST", 20),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "buyer-agent:"),
		},
	}

	var err error
	if cfg.SessionTTL, err = getEnvDuration("BUYER_AGENT_SESSION_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("BUYER_AGENT_SWEEP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if !ValidStores[c.Store] {
		return fmt.Errorf("invalid store %q (valid: memory, sqlite, redis)", c.Store)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}

// DefaultDBPath returns ~/.buyer-agent/sessions.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".buyer-agent", "sessions.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

var ttlRegex = regexp.MustCompile(`^(\d+)([dhms])$`)

// ParseDuration accepts Go durations ("1h30m") and the day shorthand "7d".
func ParseDuration(s string) (time.Duration, error) {
	m := ttlRegex.FindStringSubmatch(s)
	if m == nil {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q (use e.g. 7d, 24h, 30m, 60s)", s)
		}
		return d, nil
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	}
	return time.Duration(n) * time.Second, nil
}
