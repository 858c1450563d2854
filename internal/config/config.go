package config

import "time"

const (
	defaultDBPath   = "~/.local/share/quicknote/notes.db"
	defaultDebounce = 250 * time.Millisecond
	maxDebounce     = 2 * time.Second
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Search  SearchConfig  `json:"search"`
	UI      UIConfig      `json:"ui"`
}

// StorageConfig configures the note database.
type StorageConfig struct {
	DBPath string `json:"dbPath"` // supports ~ expansion
	Watch  bool   `json:"watch"`  // reload when another process writes the database
}

// SearchConfig configures search behavior.
type SearchConfig struct {
	// Debounce is how long typing must pause before the list reloads.
	// Zero reloads on every keystroke.
	Debounce time.Duration `json:"debounce"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter    bool   `json:"showFooter"`
	MarkdownStyle string `json:"markdownStyle"` // glamour style for the editor preview
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: defaultDBPath,
			Watch:  true,
		},
		Search: SearchConfig{
			Debounce: defaultDebounce,
		},
		UI: UIConfig{
			ShowFooter:    true,
			MarkdownStyle: "dark",
		},
	}
}

// Validate checks the configuration and clamps out-of-range values.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = ExpandPath(defaultDBPath)
	}
	if c.Search.Debounce < 0 {
		c.Search.Debounce = defaultDebounce
	}
	if c.Search.Debounce > maxDebounce {
		c.Search.Debounce = maxDebounce
	}
	if c.UI.MarkdownStyle == "" {
		c.UI.MarkdownStyle = "dark"
	}
	return nil
}
