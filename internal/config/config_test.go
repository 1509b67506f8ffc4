package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.General.BackupDirectory != "" {
		t.Errorf("expected no backup directory by default, got %q", cfg.General.BackupDirectory)
	}
	if !cfg.Output.Color {
		t.Error("expected Color to be true by default")
	}
	if cfg.Output.Verbose {
		t.Error("expected Verbose to be false by default")
	}
	if cfg.Cache.Backend != CacheBolt {
		t.Errorf("expected bolt cache backend, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Concurrency != 4 {
		t.Errorf("expected cache concurrency 4, got %d", cfg.Cache.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetManagerConfig(t *testing.T) {
	cfg := &Config{
		Managers: map[string]ManagerConfig{
			"apt":     {Elevation: "doas"},
			"flatpak": {Remote: "fedora"},
		},
	}

	if got := cfg.GetManagerConfig("apt").Elevation; got != "doas" {
		t.Errorf("expected elevation 'doas', got '%s'", got)
	}
	if got := cfg.GetManagerConfig("flatpak").Remote; got != "fedora" {
		t.Errorf("expected remote 'fedora', got '%s'", got)
	}

	// Non-existing manager returns empty config
	if got := cfg.GetManagerConfig("dnf"); got != (ManagerConfig{}) {
		t.Errorf("expected empty config, got %+v", got)
	}
}

func TestElevations(t *testing.T) {
	cfg := &Config{
		Managers: map[string]ManagerConfig{
			"apt":     {Elevation: "none"},
			"flatpak": {Remote: "flathub"},
		},
	}

	got := cfg.Elevations()
	if len(got) != 1 || got["apt"] != "none" {
		t.Errorf("Elevations() = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"json backend", func(c *Config) { c.Cache.Backend = CacheJSON }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, false},
		{"zero concurrency", func(c *Config) { c.Cache.Concurrency = 0 }, false},
		{"bad language", func(c *Config) { c.General.Language = "not a tag!" }, false},
		{"empty language", func(c *Config) { c.General.Language = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLanguageTag(t *testing.T) {
	cfg := Default()
	cfg.General.Language = "ja"
	if cfg.LanguageTag() != language.Japanese {
		t.Errorf("LanguageTag() = %v", cfg.LanguageTag())
	}

	cfg.General.Language = ""
	if cfg.LanguageTag() != language.Und {
		t.Errorf("empty language should be Und, got %v", cfg.LanguageTag())
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

	t.Setenv("NO_COLOR", "")
	cfg.Output.Color = false
	if cfg.ShouldUseColor() {
		t.Error("expected ShouldUseColor() to return false when Color is false")
	}
}

func TestLoadSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.General.BackupDirectory = "/srv/backup"
	cfg.Managers["apt"] = ManagerConfig{Elevation: "doas"}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if loaded.General.BackupDirectory != "/srv/backup" {
		t.Errorf("backup directory = %q", loaded.General.BackupDirectory)
	}
	if loaded.GetManagerConfig("apt").Elevation != "doas" {
		t.Error("loaded config doesn't have expected elevation")
	}
	if !loaded.GetManagerConfig("winget").AcceptAgreements {
		t.Error("loaded config lost winget settings")
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := "[general]\nbackup_directory = \"/data/abr\"\n\n[managers.apt]\nelevation = \"none\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.General.BackupDirectory != "/data/abr" {
		t.Errorf("backup directory = %q", cfg.General.BackupDirectory)
	}
	if cfg.GetManagerConfig("apt").Elevation != "none" {
		t.Errorf("apt elevation = %q", cfg.GetManagerConfig("apt").Elevation)
	}
	if cfg.GetManagerConfig("flatpak").Remote != "flathub" {
		t.Error("expected flatpak default remote to survive")
	}
	if cfg.Cache.Backend != CacheBolt {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[cache]\nbackend = \"redis\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(configPath, []byte("[general\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	cfg, err := LoadFrom("/non/existent/path/config.toml")
	if err != nil {
		t.Fatalf("LoadFrom() should not error for non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadFrom() should return default config for non-existent file")
	}

	if !cfg.Output.Color {
		t.Error("expected default Color to be true")
	}
}

func TestSetBackupDirectory(t *testing.T) {
	cfg := Default()
	dir := filepath.Join(t.TempDir(), "backups", "laptop")

	if err := cfg.SetBackupDirectory(dir); err != nil {
		t.Fatalf("SetBackupDirectory() error: %v", err)
	}
	if cfg.General.BackupDirectory != dir {
		t.Errorf("backup directory = %q, want %q", cfg.General.BackupDirectory, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("backup directory was not created: %v", err)
	}

	if err := cfg.SetBackupDirectory("  "); err == nil {
		t.Error("expected error for blank directory")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetBackupDirectory(file); err == nil {
		t.Error("expected error when path is a file")
	}
	if cfg.General.BackupDirectory != dir {
		t.Error("failed call should not change the backup directory")
	}
}
