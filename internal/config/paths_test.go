package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir := ConfigDir()

	if !strings.Contains(dir, "apttool") {
		t.Errorf("ConfigDir() should contain 'apttool': %s", dir)
	}
	if !strings.Contains(dir, ".config") {
		t.Errorf("ConfigDir() should be in .config: %s", dir)
	}
}

func TestPaths(t *testing.T) {
	if !strings.HasSuffix(ConfigPath(), "config.toml") {
		t.Errorf("ConfigPath() should end with 'config.toml': %s", ConfigPath())
	}
	if !strings.HasSuffix(HistoryPath(), "history.db") {
		t.Errorf("HistoryPath() should end with 'history.db': %s", HistoryPath())
	}
}

func TestXDGOverride(t *testing.T) {
	tmpDir := t.TempDir()
	customConfig := filepath.Join(tmpDir, "custom_config")
	customData := filepath.Join(tmpDir, "custom_data")

	t.Setenv("XDG_CONFIG_HOME", customConfig)
	t.Setenv("XDG_DATA_HOME", customData)

	if !strings.HasPrefix(ConfigDir(), customConfig) {
		t.Errorf("ConfigDir should use XDG_CONFIG_HOME: %s", ConfigDir())
	}
	if !strings.HasPrefix(DataDir(), customData) {
		t.Errorf("DataDir should use XDG_DATA_HOME: %s", DataDir())
	}
}

func TestEnsureDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))

	if err := EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() error: %v", err)
	}

	info, err := os.Stat(DataDir())
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", DataDir())
	}
}
