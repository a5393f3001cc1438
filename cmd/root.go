// Package cmd provides the command-line interface for plate with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	Settings are resolved with clear precedence:
//	1. Command-line flags (--log-level, --output, etc.) - highest priority
//	2. Individual environment variables (PLATE_LOG_LEVEL, etc.)
//	3. The config file from --config or PLATE_CONFIG_FILE
//	4. .plate.yml in the current directory - lowest priority
//
// Environment Variables:
//
//	PLATE_CONFIG_FILE: Path to custom configuration file
//	PLATE_LOG_LEVEL: debug, info, warn, error or silent
//	PLATE_LOG_FORMAT: text or json
//	PLATE_OUTPUT_FORMAT: table, json or yaml
//	PLATE_WATCH_DEBOUNCE: Debounce for the watch command, e.g. 500ms
//
// # Available Commands
//
//   - compose: Resolve a manifest into its plugin list
//   - validate: Check manifests for problems
//   - render: Render the initial document to HTML
//   - deserialize: Convert HTML, text or fragments to document nodes
//   - watch: Recompose on every manifest save
//   - list: List presets, components and core plugins
//   - version: Show build information
//
// # Command Examples
//
//	// Show the resolved plugin list with parents and handlers
//	plate compose -m editor.yaml -v
//
//	// Render a different document through the same plugins
//	plate render --value @doc.json
//
//	// Paste HTML into the manifest's document
//	plate deserialize page.html --insert -o json
//
// Commands write their results to stdout and diagnostics to stderr, so
// output can be piped. Structured output follows --output, falling back to
// the output.format setting.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plate",
	Short: "Compose rich-text editors from plugin manifests",
	Long: `Plate composes rich-text editor instances from plugin manifests.

A manifest lists plugins (with presets for common blocks and marks),
overrides for components, nested plugins and enabled state, and an
initial document. Plate resolves it into the flat plugin list an editor
runs with, normalizes the document, and renders or deserializes content
through that list.

Quick Start:
  plate compose -m plate.yaml            Show the resolved plugin list
  plate validate -m plate.yaml           Check a manifest for problems
  plate render -m plate.yaml             Render the initial document
  plate deserialize -m plate.yaml a.html Convert HTML to document JSON
  plate watch -m plate.yaml              Recompose on every save
  plate list                             List presets and components`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .plate.yml, can also use PLATE_CONFIG_FILE env var)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error, silent)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

// initConfig initializes the configuration system.
//
// Config file priority (highest to lowest):
//  1. --config flag
//  2. PLATE_CONFIG_FILE environment variable
//  3. .plate.yml in the current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("PLATE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".plate")
	}

	viper.SetEnvPrefix("PLATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing or unreadable config file leaves the defaults in place.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadSettings loads the settings and the logger they describe.
func loadSettings() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, cfg.Logger().WithComponent("cli"), nil
}

// contextOf returns the command's context, or a background context for
// commands run outside Execute.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
