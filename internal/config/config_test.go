package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	os.Setenv(key, "false")
	defer os.Unsetenv(key)
	if got := getEnvBool(key, true); got {
		t.Error("getEnvBool() = true, want false")
	}

	os.Setenv(key, "garbage")
	if got := getEnvBool(key, true); !got {
		t.Error("getEnvBool() should fall back to default on bad value")
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultDatabasePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test because user home dir cannot be found")
	}

	dbPath := getDefaultDatabasePath()
	expected := filepath.Join(home, ".config", "chatstat", "chatstat.db")
	if dbPath != expected {
		t.Errorf("getDefaultDatabasePath() = %q, want %q", dbPath, expected)
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestParseHostConstants(t *testing.T) {
	content := `
# Server settings
port: 8123
basicAuthUser:
  username: "admin"
  password: "secret"
`
	constants := parseHostConstants(content)
	if constants == nil {
		t.Fatal("parseHostConstants returned nil")
	}
	if constants.Port != "8123" {
		t.Errorf("Port = %q, want %q", constants.Port, "8123")
	}
	if constants.BasicUser != "admin" {
		t.Errorf("BasicUser = %q, want %q", constants.BasicUser, "admin")
	}
}

func TestParseHostConstants_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty", ""},
		{"NoPort", `username: "admin"`},
		{"Garbage", "some random text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseHostConstants(tt.content); got != nil {
				t.Errorf("parseHostConstants() should return nil for %s", tt.name)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("HOST_API_URL", "http://127.0.0.1:9000")
	os.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db.sqlite"))
	defer os.Unsetenv("HOST_API_URL")
	defer os.Unsetenv("DATABASE_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HostURL != "http://127.0.0.1:9000" {
		t.Errorf("HostURL = %q, want %q", cfg.HostURL, "http://127.0.0.1:9000")
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
}

func TestLoad_BadChatsDir(t *testing.T) {
	tmpDir := t.TempDir()
	os.Setenv("CHATS_DIR", filepath.Join(tmpDir, "does-not-exist"))
	os.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db.sqlite"))
	defer os.Unsetenv("CHATS_DIR")
	defer os.Unsetenv("DATABASE_PATH")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for a missing CHATS_DIR")
	}
}
