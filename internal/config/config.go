package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig
	History HistoryConfig
	UI      UIConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds every dispatch. The liveness probe carries its own
	// fixed window regardless of this value.
	Timeout time.Duration
}

// HistoryConfig holds the request-log settings.
type HistoryConfig struct {
	Path string
	Keep time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageLimit int    `mapstructure:"page_limit"`
	ExportDir string `mapstructure:"export_dir"`
}

// Load reads configuration from file and env. Env var overrides use prefix BANKSCOPE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("history.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "bankscope", "history.db"))
	v.SetDefault("history.keep", "720h")
	v.SetDefault("ui.page_limit", 10)
	v.SetDefault("ui.export_dir", ".")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BANKSCOPE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "bankscope"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BANKSCOPE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the console's settings surface for non-sensitive
// preferences.
func Save(cfg Config) error {
	path := os.Getenv("BANKSCOPE_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "bankscope", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("history.path", cfg.History.Path)
	v.Set("history.keep", cfg.History.Keep.String())
	v.Set("ui.page_limit", cfg.UI.PageLimit)
	v.Set("ui.export_dir", cfg.UI.ExportDir)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
