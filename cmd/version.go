package cmd

import (
	"fmt"

	"github.com/conneroisu/plate/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for plate including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  plate version              # Show version info
  plate version --short      # Show short version
  plate version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.GetBuildInfo()

	switch versionFormat {
	case "json", "yaml":
		return writeStructured(cmd, versionFormat, info)
	case "text":
		if versionShort {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Short())
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}
}
