package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "bpexplorer"

// Config holds bpexplorer user configuration.
type Config struct {
	Theme      string `json:"theme"`
	MaxHistory int    `json:"max_history"` // 0 keeps every entry
	Editor     string `json:"editor"`      // empty: $EDITOR, then vi
	CacheSize  int    `json:"cache_size"`
	Trace      bool   `json:"trace"`
	path       string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:      "default",
		MaxHistory: 100,
		CacheSize:  DefaultCacheSize,
	}
}

// LoadConfig loads configuration from the standard config directory.
func LoadConfig() (*Config, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(filepath.Join(dir, "config.json"))
}

// LoadConfigFrom loads configuration from path, writing the defaults
// there if the file does not exist yet.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Save default config.
			cfg.Save()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.path = path
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.MaxHistory < 0 {
		c.MaxHistory = 0
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
}

// EditorCommand returns the program used to open blueprints externally.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

// Path returns the file the configuration is saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c.path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(dir, "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(c.path, data, 0o644)
}

// DataDir returns the data directory for persistent storage.
func DataDir() (string, error) {
	return appDir("XDG_DATA_HOME", ".local", "share")
}

func configDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

func appDir(xdgEnv string, fallback ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}

	var dir string
	switch runtime.GOOS {
	case "darwin":
		dir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			dir = filepath.Join(appData, appName)
		} else {
			dir = filepath.Join(home, "."+appName)
		}
	default: // Linux, BSD, etc.
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			dir = filepath.Join(xdg, appName)
		} else {
			dir = filepath.Join(append(append([]string{home}, fallback...), appName)...)
		}
	}

	return dir, nil
}
