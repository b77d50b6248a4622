package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./folio.db" {
			t.Errorf("expected database path ./folio.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "http://127.0.0.1:8000" {
			t.Errorf("expected api base URL http://127.0.0.1:8000, got %s", config.API.BaseURL)
		}

		if config.Reader.Theme != "light" {
			t.Errorf("expected default theme light, got %s", config.Reader.Theme)
		}

		if config.Reader.SaveDelaySec != 5 {
			t.Errorf("expected save delay 5, got %d", config.Reader.SaveDelaySec)
		}

		if config.Reader.FontScale != 100 {
			t.Errorf("expected font scale 100, got %d", config.Reader.FontScale)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		t.Run("Refuses To Overwrite", func(t *testing.T) {
			if err := CreateConfigFile(configPath); err == nil {
				t.Error("expected error when config file already exists")
			}
		})
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing config file")
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("[api\nbase_url="), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error for invalid TOML")
			}
		})
	})
}
