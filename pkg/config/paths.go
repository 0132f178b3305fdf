package config

import (
	"os"
	"path/filepath"
)

// Dir is the per-user directory holding all flyerhunt state. The
// FLYERHUNT_CONFIG_DIR env var overrides it (useful for tests and
// cron setups).
func Dir() string {
	if dir := os.Getenv("FLYERHUNT_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "flyerhunt")
}

func PrefsPath() string {
	return filepath.Join(Dir(), "config.json")
}

func CredentialsPath() string {
	return filepath.Join(Dir(), "credentials.json")
}

func CacheDBPath() string {
	return filepath.Join(Dir(), "cache.db")
}
