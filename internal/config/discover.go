package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfig names the environment variable holding an explicit config path.
const EnvConfig = "YTJAR_CONFIG"

// ErrNotFound is returned by Discover when no config file exists in any
// search location.
var ErrNotFound = errors.New("config not found")

const appDir = "ytjar"

// xdgDir returns $env, or $HOME/fallback when env is unset. ok is false when
// neither can be resolved.
func xdgDir(env string, fallback ...string) (string, bool) {
	if dir := os.Getenv(env); dir != "" {
		return dir, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(append([]string{home}, fallback...)...), true
}

// DefaultPath is $XDG_CONFIG_HOME/ytjar/config.toml.
func DefaultPath() string {
	dir, ok := xdgDir("XDG_CONFIG_HOME", ".config")
	if !ok {
		return "./ytjar.toml"
	}
	return filepath.Join(dir, appDir, "config.toml")
}

// DefaultHistoryPath is $XDG_DATA_HOME/ytjar/history.db.
func DefaultHistoryPath() string {
	dir, ok := xdgDir("XDG_DATA_HOME", ".local", "share")
	if !ok {
		return "./ytjar-history.db"
	}
	return filepath.Join(dir, appDir, "history.db")
}

// SearchPaths lists the locations Discover tries, in order, after
// YTJAR_CONFIG.
func SearchPaths() []string {
	return []string{"./ytjar.toml", DefaultPath(), "/etc/ytjar/config.toml"}
}

// Discover returns the config file to load. YTJAR_CONFIG wins and must name
// an existing file; otherwise the first of SearchPaths that exists is used.
// ErrNotFound means ytjar should run from environment variables alone.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %v", ErrNotFound, paths)
}
