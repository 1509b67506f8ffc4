// Package config loads and saves the abr configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// Name cache backends.
const (
	CacheBolt = "bolt"
	CacheJSON = "json"
)

// Config represents the complete abr configuration.
type Config struct {
	General  GeneralConfig            `toml:"general"`
	Output   OutputConfig             `toml:"output"`
	Cache    CacheConfig              `toml:"cache"`
	Managers map[string]ManagerConfig `toml:"managers"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// BackupDirectory is where snapshots, host settings and config files are kept.
	BackupDirectory string `toml:"backup_directory"`

	// Language is a BCP-47 tag used to order display names.
	Language string `toml:"language"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`

	// LogLevel is the zerolog level used when not verbose.
	LogLevel string `toml:"log_level"`
}

// CacheConfig controls the winget display-name cache.
type CacheConfig struct {
	// Backend is "bolt" or "json". The json backend keeps the cache inside the backup directory.
	Backend string `toml:"backend"`

	// Concurrency bounds parallel name lookups and backups.
	Concurrency int `toml:"concurrency"`
}

// ManagerConfig contains per-manager settings.
type ManagerConfig struct {
	// Elevation prefixes system-wide install commands. "none" disables it.
	Elevation string `toml:"elevation,omitempty"`

	// Remote is the Flatpak remote used for installs. Flatpak only.
	Remote string `toml:"remote,omitempty"`

	// AcceptAgreements adds winget's agreement flags to install commands. Winget only.
	AcceptAgreements bool `toml:"accept_agreements,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Language: "en",
		},
		Output: OutputConfig{
			Color:    true,
			Unicode:  true,
			LogLevel: "warn",
		},
		Cache: CacheConfig{
			Backend:     CacheBolt,
			Concurrency: 4,
		},
		Managers: map[string]ManagerConfig{
			"apt":     {Elevation: "sudo"},
			"yum":     {Elevation: "sudo"},
			"dnf":     {Elevation: "sudo"},
			"pacman":  {Elevation: "sudo"},
			"zypper":  {Elevation: "sudo"},
			"snap":    {Elevation: "sudo"},
			"flatpak": {Remote: "flathub"},
			"winget":  {AcceptAgreements: true},
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBolt, CacheJSON:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheBolt, CacheJSON, c.Cache.Backend)
	}
	if c.Cache.Concurrency < 1 {
		return fmt.Errorf("cache.concurrency must be at least 1, got %d", c.Cache.Concurrency)
	}
	if c.General.Language != "" {
		if _, err := language.Parse(c.General.Language); err != nil {
			return fmt.Errorf("general.language: %w", err)
		}
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// SetBackupDirectory records dir as the backup directory, creating it when missing.
// The stored path is absolute.
func (c *Config) SetBackupDirectory(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New("backup directory must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(abs, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", abs)
	}

	c.General.BackupDirectory = abs
	return nil
}

// GetManagerConfig returns the configuration for a specific manager.
// Returns an empty config if no configuration exists for the manager.
func (c *Config) GetManagerConfig(name string) ManagerConfig {
	if cfg, ok := c.Managers[name]; ok {
		return cfg
	}
	return ManagerConfig{}
}

// Elevations returns the elevation prefix configured per manager.
func (c *Config) Elevations() map[string]string {
	out := make(map[string]string)
	for name, m := range c.Managers {
		if m.Elevation != "" {
			out[name] = m.Elevation
		}
	}
	return out
}

// LanguageTag returns the configured collation language, or language.Und.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.General.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
