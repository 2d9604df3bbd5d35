package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Fields tagged with env can be overridden from the environment, see [ApplyEnv].
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	OAuth    OAuthConfig    `toml:"oauth"`
	Recovery RecoveryConfig `toml:"recovery"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig contains the remote catalog service settings.
type APIConfig struct {
	BaseURL string        `toml:"base_url" env:"HOKAGE_API_URL"`
	Timeout time.Duration `toml:"timeout" env:"HOKAGE_TIMEOUT"`
}

// DatabaseConfig contains local database settings.
type DatabaseConfig struct {
	Path         string `toml:"path" env:"HOKAGE_DB_PATH"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// OAuthConfig contains settings for the local Google sign-in callback server.
type OAuthConfig struct {
	CallbackAddr string        `toml:"callback_addr" env:"HOKAGE_CALLBACK_ADDR"`
	CallbackPath string        `toml:"callback_path"`
	Timeout      time.Duration `toml:"timeout"`
}

// RecoveryConfig contains password-recovery flow settings.
type RecoveryConfig struct {
	ResetDisplayDelay time.Duration `toml:"reset_display_delay"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level   string `toml:"level" env:"HOKAGE_LOG_LEVEL"`
	TUIFile string `toml:"tui_file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays environment variables onto config. Unset variables leave fields untouched.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
