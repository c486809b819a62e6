package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StorageConfig locates the local database.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// File is the log file path. The terminal UI owns stdout, so logs
	// always go to a file.
	File string `mapstructure:"file" yaml:"file"`

	MaxSizeMB  int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// AuthConfig holds settings for the session keyring.
type AuthConfig struct {
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	FileDir     string `mapstructure:"file_dir" yaml:"file_dir"`
}

// ExportConfig holds settings for document export.
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is the glamour style used for export previews.
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ConfigDir returns ~/.config/roadmap, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "roadmap")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/roadmap/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Storage: StorageConfig{Path: filepath.Join(dir, "roadmap.db")},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(dir, "roadmap.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Auth: AuthConfig{
			ServiceName: "roadmap-builder",
			FileDir:     filepath.Join(dir, "credentials"),
		},
		Export:  ExportConfig{Dir: "."},
		Display: DisplayConfig{Theme: "dark"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("auth.service_name", def.Auth.ServiceName)
	v.SetDefault("auth.file_dir", def.Auth.FileDir)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("display.theme", def.Display.Theme)

	v.SetEnvPrefix("ROADMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("auth", cfg.Auth)
	v.Set("export", cfg.Export)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
