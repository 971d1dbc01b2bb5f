package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Clinic   ClinicConfig
	Export   ExportConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ClinicConfig identifies the clinic this install serves.
type ClinicConfig struct {
	Name     string
	Timezone string
}

// ExportConfig holds training-data export settings.
type ExportConfig struct {
	Dir string
}

// LogConfig holds log sink settings. SeqURL is optional; when empty only
// the file sink is used.
type LogConfig struct {
	Path   string
	SeqURL string `mapstructure:"seq_url"`
	Level  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix DERMADESK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "dermadesk", "dermadesk.db"))
	v.SetDefault("clinic.name", "DermaDesk Clinic")
	v.SetDefault("clinic.timezone", "Local")
	v.SetDefault("export.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "dermadesk", "exports"))
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "dermadesk", "dermadesk.log"))
	v.SetDefault("log.seq_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("ui.time_format", "15:04")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DERMADESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "dermadesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DERMADESK")
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
// needed. Used by the TUI settings view for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("DERMADESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "dermadesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("clinic.name", cfg.Clinic.Name)
	v.Set("clinic.timezone", cfg.Clinic.Timezone)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.seq_url", cfg.Log.SeqURL)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.time_format", cfg.UI.TimeFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
