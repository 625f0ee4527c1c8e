package config

import (
	"os"
	"path/filepath"
)

const (
	appName     = "apttool"
	configFile  = "config.toml"
	historyFile = "history.db"
)

// ConfigDir returns $XDG_CONFIG_HOME/apttool, or ~/.config/apttool.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir() //nolint:errcheck
	return filepath.Join(home, ".config", appName)
}

// DataDir returns $XDG_DATA_HOME/apttool, or ~/.local/share/apttool.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir() //nolint:errcheck
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}

// HistoryPath returns the full path to the history database.
func HistoryPath() string {
	return filepath.Join(DataDir(), historyFile)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}
