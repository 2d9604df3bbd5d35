package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./hokage.db" {
			t.Errorf("expected database path ./hokage.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "http://localhost:5001" {
			t.Errorf("expected api base URL http://localhost:5001, got %s", config.API.BaseURL)
		}

		if config.API.Timeout != 15*time.Second {
			t.Errorf("expected api timeout 15s, got %v", config.API.Timeout)
		}

		if config.Recovery.ResetDisplayDelay != 3*time.Second {
			t.Errorf("expected reset display delay 3s, got %v", config.Recovery.ResetDisplayDelay)
		}

		if config.OAuth.CallbackPath != "/auth/google/callback" {
			t.Errorf("expected callback path /auth/google/callback, got %s", config.OAuth.CallbackPath)
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

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://hokage.example.com"
timeout = "5s"

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://hokage.example.com" {
			t.Errorf("expected base URL https://hokage.example.com, got %s", config.API.BaseURL)
		}

		if config.API.Timeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", config.API.Timeout)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected missing keys to keep defaults, got log level %q", config.Log.Level)
		}
	})

	t.Run("LoadConfig With Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("HOKAGE_API_URL", "https://hokage-backend.example.com")
		t.Setenv("HOKAGE_TIMEOUT", "30s")
		t.Setenv("HOKAGE_LOG_LEVEL", "debug")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.API.BaseURL != "https://hokage-backend.example.com" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.API.Timeout != 30*time.Second {
			t.Errorf("expected env timeout 30s, got %v", config.API.Timeout)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level debug, got %s", config.Log.Level)
		}
		if config.Database.Path != "./hokage.db" {
			t.Errorf("expected unset env to keep default db path, got %s", config.Database.Path)
		}
	})

	t.Run("ApplyEnv With Invalid Duration", func(t *testing.T) {
		t.Setenv("HOKAGE_TIMEOUT", "soon")

		if err := ApplyEnv(DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
