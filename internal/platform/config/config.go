// Package config loads application configuration from environment variables.
// All variables use the TRACKER_ prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	API      APIConfig
	Prefs    PrefsConfig
	Cache    CacheConfig
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// APIConfig holds the tracker backend settings.
type APIConfig struct {
	BaseURL string
}

// PrefsConfig selects where the session token and theme are persisted.
type PrefsConfig struct {
	Backend   string // "file", "redis" or "memory"
	Path      string
	KeyPrefix string
}

// CacheConfig holds Redis connection settings for the redis prefs backend.
type CacheConfig struct {
	URL string
}

// DatabaseConfig holds PostgreSQL settings for the activity journal.
// An empty URL disables the journal.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// UIConfig holds list behaviour settings.
type UIConfig struct {
	SearchDebounce time.Duration
	StaleGuard     bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with TRACKER_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(envStr("TRACKER_API_URL", "http://localhost:8000"), "/"),
		},
		Prefs: PrefsConfig{
			Backend:   envStr("TRACKER_PREFS_BACKEND", "file"),
			Path:      envStr("TRACKER_PREFS_PATH", defaultPrefsPath()),
			KeyPrefix: envStr("TRACKER_PREFS_KEY_PREFIX", "pai-tracker:"),
		},
		Cache: CacheConfig{
			URL: envStr("TRACKER_CACHE_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			URL:      envStr("TRACKER_DATABASE_URL", ""),
			MaxConns: envInt("TRACKER_DATABASE_MAX_CONNS", 4),
			MinConns: envInt("TRACKER_DATABASE_MIN_CONNS", 1),
		},
		UI: UIConfig{
			SearchDebounce: envDuration("TRACKER_UI_SEARCH_DEBOUNCE", 500*time.Millisecond),
			StaleGuard:     envBool("TRACKER_UI_STALE_GUARD", true),
		},
		Log: LogConfig{
			Level:  envStr("TRACKER_LOG_LEVEL", "warn"),
			Format: envStr("TRACKER_LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("TRACKER_API_URL is required")
	}

	switch c.Prefs.Backend {
	case "file":
		if c.Prefs.Path == "" {
			return fmt.Errorf("TRACKER_PREFS_PATH is required for the file backend")
		}
	case "redis":
		if c.Cache.URL == "" {
			return fmt.Errorf("TRACKER_CACHE_URL is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("TRACKER_PREFS_BACKEND must be 'file', 'redis' or 'memory', got %q", c.Prefs.Backend)
	}

	if c.UI.SearchDebounce < 0 {
		return fmt.Errorf("TRACKER_UI_SEARCH_DEBOUNCE must not be negative")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("TRACKER_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// JournalEnabled returns true if the activity journal has a database.
func (c *Config) JournalEnabled() bool {
	return c.Database.URL != ""
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pai-tracker", "state.yaml")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
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
