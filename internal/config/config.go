// Package config provides configuration management for plate.
//
// Two layers exist. Settings control the tool itself (logging, output
// format, watch debounce) and are loaded with Viper from a config file,
// PLATE_ environment variables and command-line flags. Manifests describe
// one editor composition (plugins, overrides, the initial document) and are
// decoded with yaml.v3, which keeps plugin keys case-sensitive.
package config

import (
	"fmt"
	"time"

	"github.com/conneroisu/plate/internal/logging"
	"github.com/spf13/viper"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Setting defaults.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultOutputFormat  = FormatTable
	DefaultWatchDebounce = 300 * time.Millisecond
)

type Config struct {
	Log    LogConfig    `json:"log" yaml:"log"`
	Output OutputConfig `json:"output" yaml:"output"`
	Watch  WatchConfig  `json:"watch" yaml:"watch"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
}

type WatchConfig struct {
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}

// SetDefaults registers the setting defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("watch.debounce", DefaultWatchDebounce)
}

// Load reads the settings from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the settings from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle debounce set via viper as a string or an integer
	if v.IsSet("watch.debounce") {
		config.Watch.Debounce = v.GetDuration("watch.debounce")
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
	if config.Output.Format == "" {
		config.Output.Format = DefaultOutputFormat
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultWatchDebounce
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values
func validateConfig(config *Config) error {
	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log config: format %q must be text or json", config.Log.Format)
	}

	switch config.Output.Format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output config: format %q must be table, json or yaml", config.Output.Format)
	}

	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce must not be negative")
	}

	return nil
}

// Logger builds the logger described by the log settings.
func (c *Config) Logger() logging.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
	})
}
