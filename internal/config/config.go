// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	HostURL         string
	HostAPIKey      string
	ChatsDir        string
	DatabasePath    string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	Notifications   bool
}

// Default values
const (
	defaultRefreshInterval = 5 * time.Minute
	defaultRequestTimeout  = 30 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	defaultHostURL := "http://127.0.0.1:8000"
	if constants := LoadHostConstants(); constants != nil {
		defaultHostURL = "http://127.0.0.1:" + constants.Port
	}

	cfg := &Config{
		HostURL:         getEnvString("HOST_API_URL", defaultHostURL),
		HostAPIKey:      getEnvString("HOST_API_KEY", ""),
		ChatsDir:        getEnvString("CHATS_DIR", ""),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		Notifications:   getEnvBool("NOTIFICATIONS", true),
	}

	if cfg.HostURL == "" && cfg.ChatsDir == "" {
		return nil, fmt.Errorf("HOST_API_URL or CHATS_DIR is required")
	}

	if cfg.ChatsDir != "" {
		if info, err := os.Stat(cfg.ChatsDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("CHATS_DIR is not a readable directory: %s", cfg.ChatsDir)
		}
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "chatstat", ".env"),
			filepath.Join(home, ".chatstat", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chatstat.db"
	}
	return filepath.Join(home, ".config", "chatstat", "chatstat.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
