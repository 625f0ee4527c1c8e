package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if !cfg.Output.Color {
		t.Error("expected Color to be true by default")
	}
	if cfg.Output.Verbose {
		t.Error("expected Verbose to be false by default")
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("expected Format %q, got %q", FormatText, cfg.Output.Format)
	}
	if cfg.Search.CaseInsensitive {
		t.Error("expected CaseInsensitive to be false by default")
	}
	if cfg.Search.ProgressEvery != 100 {
		t.Errorf("expected ProgressEvery 100, got %d", cfg.Search.ProgressEvery)
	}
	if cfg.General.AutoConfirm || cfg.General.DryRun {
		t.Error("expected AutoConfirm and DryRun to be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"json", func(c *Config) { c.Output.Format = FormatJSON }, true},
		{"yaml", func(c *Config) { c.Output.Format = FormatYAML }, true},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, false},
		{"zero progress", func(c *Config) { c.Search.ProgressEvery = 0 }, false},
		{"negative progress", func(c *Config) { c.Search.ProgressEvery = -5 }, false},
		{"negative width", func(c *Config) { c.Output.DescriptionWidth = -1 }, false},
		{"no truncation", func(c *Config) { c.Output.DescriptionWidth = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestResolveAlias(t *testing.T) {
	cfg := &Config{
		Aliases: map[string]string{
			"vi":     "vim",
			"python": "python3",
		},
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"vi", "vim"},
		{"python", "python3"},
		{"git", "git"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := cfg.ResolveAlias(tt.input)
			if result != tt.expected {
				t.Errorf("ResolveAlias(%s) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}

	resolved := cfg.ResolveAliases([]string{"vi", "git"})
	if resolved[0] != "vim" || resolved[1] != "git" {
		t.Errorf("ResolveAliases() = %v", resolved)
	}
}

func TestShouldUseColor(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Color: true},
	}

	t.Setenv("NO_COLOR", "")
	if !cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return true")
	}

	t.Setenv("NO_COLOR", "1")
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when NO_COLOR is set")
	}
}

func TestLoadEncodedConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Aliases["vi"] = "vim"
	cfg.Backend.StatusFile = "/srv/chroot/var/lib/dpkg/status"

	f, err := os.Create(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	f.Close()

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.ResolveAlias("vi") != "vim" {
		t.Error("loaded config doesn't have expected alias")
	}
	if loaded.Backend.StatusFile != cfg.Backend.StatusFile {
		t.Errorf("StatusFile = %q", loaded.Backend.StatusFile)
	}
}

func TestLoadPartialConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[search]
names_only = true

[output]
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if !cfg.Search.NamesOnly || cfg.Output.Format != FormatJSON {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Search.ProgressEvery != 100 || cfg.Search.CaseInsensitive {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = \"xml\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadFrom() = %v, want ErrInvalidConfig", err)
	}

	if err := os.WriteFile(configPath, []byte("not = [toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("LoadFrom() should fail on malformed TOML")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}
	if cfg == nil || !cfg.Output.Color {
		t.Error("expected default config for non-existent file")
	}
}
