package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/quicknote"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary. Pointer and string
// fields distinguish "absent" from zero values so partial config files
// merge over the defaults.
type rawConfig struct {
	Storage rawStorageConfig `json:"storage"`
	Search  rawSearchConfig  `json:"search"`
	UI      rawUIConfig      `json:"ui"`
}

type rawStorageConfig struct {
	DBPath string `json:"dbPath"`
	Watch  *bool  `json:"watch"`
}

type rawSearchConfig struct {
	Debounce string `json:"debounce"`
}

type rawUIConfig struct {
	ShowFooter    *bool  `json:"showFooter"`
	MarkdownStyle string `json:"markdownStyle"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/quicknote/config.json.
// A missing file yields the defaults, not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var raw rawConfig
			if err := json.Unmarshal(data, &raw); err != nil {
				return nil, err
			}
			mergeConfig(cfg, &raw)
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	cfg.Storage.DBPath = ExpandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Storage
	if raw.Storage.DBPath != "" {
		cfg.Storage.DBPath = raw.Storage.DBPath
	}
	if raw.Storage.Watch != nil {
		cfg.Storage.Watch = *raw.Storage.Watch
	}

	// Search
	if raw.Search.Debounce != "" {
		if d, err := time.ParseDuration(raw.Search.Debounce); err == nil {
			cfg.Search.Debounce = d
		}
	}

	// UI
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.MarkdownStyle != "" {
		cfg.UI.MarkdownStyle = raw.UI.MarkdownStyle
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
