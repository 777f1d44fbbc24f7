// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"regexp"
)

// HostConstants holds settings sniffed from a local chat host install,
// used as defaults when the user configured nothing.
type HostConstants struct {
	Port      string
	BasicUser string
}

func getHostConfigPath() string {
	if dir := os.Getenv("HOST_INSTALL_DIR"); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "SillyTavern", "config.yaml")
}

// LoadHostConstants reads the local host install's config.yaml, if any.
func LoadHostConstants() *HostConstants {
	path := getHostConfigPath()
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return parseHostConstants(string(content))
}

func parseHostConstants(content string) *HostConstants {
	constants := &HostConstants{}

	// Match: port: 8000
	portRe := regexp.MustCompile(`(?m)^port:\s*(\d+)`)
	if match := portRe.FindStringSubmatch(content); len(match) > 1 {
		constants.Port = match[1]
	}

	// Match: username: "admin" (under basicAuthUser)
	userRe := regexp.MustCompile(`(?m)^\s*username:\s*"?([^"\s]+)"?`)
	if match := userRe.FindStringSubmatch(content); len(match) > 1 {
		constants.BasicUser = match[1]
	}

	if constants.Port == "" {
		return nil
	}

	return constants
}
