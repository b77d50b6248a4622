package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Reader   ReaderConfig   `toml:"reader"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains the content service connection settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	Key            string `toml:"key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ReaderConfig contains reading session defaults.
type ReaderConfig struct {
	FontScale    int    `toml:"font_scale"`    // Percent, clamped to 70-160 at session level
	Theme        string `toml:"theme"`         // light / warm / dark
	SaveDelaySec int    `toml:"save_delay"`    // Debounce delay for position saves, seconds
	PageHeight   int    `toml:"page_height"`   // Text rows per rendered page
	PageWidth    int    `toml:"page_width"`    // Text columns per rendered page
	LogPath      string `toml:"tui_log_path"`  // File the TUI redirects logs to
	DownloadDir  string `toml:"download_dir"`  // Where 'library download' stores payloads
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
