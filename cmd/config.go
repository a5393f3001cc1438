package cmd

import (
	"fmt"

	"github.com/conneroisu/plate/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect plate settings",
	Long: `Inspect the settings plate runs with.

Examples:
  plate config show                  # Show resolved settings as YAML
  plate config show --format json    # Show resolved settings as JSON`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Long: `Display the settings after loading the config file, applying
PLATE_ environment variables, command-line flags and defaults.`,
	RunE: runConfigShow,
}

var configFormat string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVar(&configFormat, "format", config.FormatYAML, "Output format (yaml, json)")
	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{config.FormatYAML, config.FormatJSON})
	})
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "# Resolved from %s, environment and defaults\n", used)
	}
	return writeStructured(cmd, configFormat, cfg)
}
