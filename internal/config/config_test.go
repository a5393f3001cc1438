package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(v *viper.Viper)
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults",
			setup: func(v *viper.Viper) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
				assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
				assert.Equal(t, FormatTable, cfg.Output.Format)
				assert.Equal(t, DefaultWatchDebounce, cfg.Watch.Debounce)
			},
		},
		{
			name: "explicit values",
			setup: func(v *viper.Viper) {
				v.Set("log.level", "debug")
				v.Set("log.format", "json")
				v.Set("output.format", "yaml")
				v.Set("watch.debounce", "1s")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
				assert.Equal(t, FormatYAML, cfg.Output.Format)
				assert.Equal(t, time.Second, cfg.Watch.Debounce)
			},
		},
		{
			name:        "invalid log level",
			setup:       func(v *viper.Viper) { v.Set("log.level", "loud") },
			expectError: true,
		},
		{
			name:        "invalid log format",
			setup:       func(v *viper.Viper) { v.Set("log.format", "xml") },
			expectError: true,
		},
		{
			name:        "invalid output format",
			setup:       func(v *viper.Viper) { v.Set("output.format", "csv") },
			expectError: true,
		},
		{
			name:        "negative debounce",
			setup:       func(v *viper.Viper) { v.Set("watch.debounce", "-1s") },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.setup(v)

			cfg, err := LoadFrom(v)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_GlobalViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("output.format", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	assert.NotNil(t, cfg.Logger())
}
