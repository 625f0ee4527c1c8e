package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Output formats understood by the listing commands.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete apttool configuration.
type Config struct {
	General GeneralConfig     `toml:"general"`
	Output  OutputConfig      `toml:"output"`
	Search  SearchConfig      `toml:"search"`
	Backend BackendConfig     `toml:"backend"`
	Aliases map[string]string `toml:"aliases"`
}

// GeneralConfig contains general apttool settings.
type GeneralConfig struct {
	// AutoConfirm skips confirmation prompts when true (like -y flag).
	AutoConfirm bool `toml:"auto_confirm"`

	// DryRun prints apt-get commands instead of running them.
	DryRun bool `toml:"dry_run"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	Unicode bool `toml:"unicode"`

	// Verbose logs catalog and backend activity to stderr.
	Verbose bool `toml:"verbose"`

	// Format is the default for --format: text, json or yaml.
	Format string `toml:"format"`

	// DescriptionWidth truncates synopses in listings. Zero disables it.
	DescriptionWidth int `toml:"description_width"`
}

// SearchConfig holds search defaults the flags override.
type SearchConfig struct {
	CaseInsensitive bool `toml:"case_insensitive"`
	NamesOnly       bool `toml:"names_only"`
	ProgressEvery   int  `toml:"progress_every"`
	StripArch       bool `toml:"strip_arch"`
}

// BackendConfig points the dpkg backend at its files. Empty values keep
// the system defaults.
type BackendConfig struct {
	StatusFile string `toml:"status_file"`
	ListsDir   string `toml:"lists_dir"`
	ArchFile   string `toml:"arch_file"`
	InfoDir    string `toml:"info_dir"`
	NativeArch string `toml:"native_arch"`

	// UseNala runs install and remove through nala if it is installed.
	UseNala bool `toml:"use_nala"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Color:            true,
			Unicode:          true,
			Format:           FormatText,
			DescriptionWidth: 70,
		},
		Search: SearchConfig{
			ProgressEvery: 100,
		},
		Aliases: map[string]string{},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads and validates the configuration at path. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: output.format %q (want text, json or yaml)", ErrInvalidConfig, c.Output.Format)
	}
	if c.Search.ProgressEvery <= 0 {
		return fmt.Errorf("%w: search.progress_every must be positive, got %d", ErrInvalidConfig, c.Search.ProgressEvery)
	}
	if c.Output.DescriptionWidth < 0 {
		return fmt.Errorf("%w: output.description_width must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ResolveAlias returns the actual package name for an alias, or the original name if no alias exists.
func (c *Config) ResolveAlias(pkg string) string {
	if alias, ok := c.Aliases[pkg]; ok {
		return alias
	}
	return pkg
}

// ResolveAliases resolves all aliases in a list of package names.
func (c *Config) ResolveAliases(packages []string) []string {
	resolved := make([]string, len(packages))
	for i, pkg := range packages {
		resolved[i] = c.ResolveAlias(pkg)
	}
	return resolved
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
