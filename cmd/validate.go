package cmd

import (
	"errors"
	"fmt"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/logging"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/spf13/cobra"
)

var (
	validateFormat string
	validateStrict bool
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:     "validate [manifest...]",
	Aliases: []string{"v"},
	Short:   "Validate editor manifests",
	Long: `Validate editor manifests for problems including:

- Missing editor id or plugin keys
- Invalid or duplicate plugin keys among siblings
- Unknown presets and components
- Override patches that rename plugins
- Disabling the history plugin
- Compositions that fail, such as a document that cannot be normalized

Examples:
  plate validate                      # Validate plate.yaml
  plate validate a.yaml b.yaml        # Validate several manifests
  plate validate --strict             # Treat warnings as errors
  plate validate --format json        # Output results as JSON`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().
		BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")

	AddFlagValidation(validateCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"text", config.FormatJSON})
	})
}

// ManifestValidation is the validation result of one manifest.
type ManifestValidation struct {
	Manifest string   `json:"manifest"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ValidationSummary struct {
	Total   int                  `json:"total"`
	Valid   int                  `json:"valid"`
	Invalid int                  `json:"invalid"`
	Results []ManifestValidation `json:"results"`
}

var errValidationFailed = errors.New("validation failed")

func runValidateCommand(cmd *cobra.Command, args []string) error {
	_, logger, err := loadSettings()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{DefaultManifest}
	}

	reg := newComponentRegistry()
	summary := ValidationSummary{Total: len(paths), Results: make([]ManifestValidation, 0, len(paths))}
	for _, path := range paths {
		result := validateManifest(cmd, path, reg, logger)
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		summary.Results = append(summary.Results, result)
	}

	if validateFormat == config.FormatJSON {
		if err := writeStructured(cmd, config.FormatJSON, summary); err != nil {
			return err
		}
	} else {
		writeValidationText(cmd, summary)
	}

	if summary.Invalid > 0 {
		return errValidationFailed
	}
	return nil
}

func validateManifest(cmd *cobra.Command, path string, reg *registry.ComponentRegistry, logger logging.Logger) ManifestValidation {
	result := ManifestValidation{Manifest: path, Errors: []string{}, Warnings: []string{}}

	manifest, err := config.LoadManifest(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	checked := manifest.Validate()
	for _, ve := range checked.Errors {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	for _, ve := range checked.Warnings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}

	// Composition catches what static checks cannot: unknown components
	// and documents that do not normalize.
	if !checked.HasErrors() {
		if _, err := composeManifest(contextOf(cmd), manifest, &StandardFlags{}, reg, logger); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	result.Valid = len(result.Errors) == 0 && (!validateStrict || len(result.Warnings) == 0)
	return result
}

func writeValidationText(cmd *cobra.Command, summary ValidationSummary) {
	out := cmd.OutOrStdout()
	for _, r := range summary.Results {
		status := "✅"
		if !r.Valid {
			status = "❌"
		}
		fmt.Fprintf(out, "%s %s\n", status, r.Manifest)
		for _, e := range r.Errors {
			fmt.Fprintf(out, "  • %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "  ⚠️  %s\n", w)
		}
	}
	fmt.Fprintf(out, "\n%d manifest(s): %d valid, %d invalid\n", summary.Total, summary.Valid, summary.Invalid)
}
