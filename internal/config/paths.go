package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appName     = "abr"
	configFile  = "config.toml"
	historyFile = "history.db"
	namesFile   = "names.db"
)

// ConfigDir returns the configuration directory, $XDG_CONFIG_HOME/abr or the platform equivalent.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// DataDir returns the data directory, $XDG_DATA_HOME/abr or the platform equivalent.
func DataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// CacheDir returns the cache directory, $XDG_CACHE_HOME/abr or the platform equivalent.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFile)
}

// HistoryPath returns the full path to the run history database.
func HistoryPath() string {
	return filepath.Join(DataDir(), historyFile)
}

// NameCachePath returns the bolt display-name cache path.
func NameCachePath() string {
	return filepath.Join(CacheDir(), namesFile)
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0755)
}
