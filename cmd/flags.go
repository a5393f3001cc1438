package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/document"
	"github.com/conneroisu/plate/internal/mockdata"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultManifest is the manifest used when --manifest is not given.
const DefaultManifest = "plate.yaml"

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Manifest flags
	Manifest string `flag:"manifest,m" desc:"Editor manifest (YAML)" default:"plate.yaml"`

	// Document flags
	Value  string `flag:"value" desc:"Initial document (JSON or @file.json)" default:""`
	Sample bool   `flag:"sample" desc:"Replace the document with generated sample content" default:"false"`
	Seed   int64  `flag:"seed" desc:"Seed for --sample" default:"1"`

	// Output flags
	OutputFormat string `flag:"output,o" desc:"Output format (table|json|yaml)" default:""`
	Verbose      bool   `flag:"verbose,v" desc:"Enable verbose output" default:"false"`
	Quiet        bool   `flag:"quiet,q" desc:"Suppress output" default:"false"`
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "manifest":
			addManifestFlags(cmd, flags)
		case "document":
			addDocumentFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addManifestFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.Manifest, "manifest", "m", DefaultManifest, "Editor manifest (YAML)")
}

func addDocumentFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVar(&flags.Value, "value", "", "Initial document (JSON or @file.json), replaces the manifest's")
	cmd.Flags().BoolVar(&flags.Sample, "sample", false, "Replace the document with sample content for every plugin")
	cmd.Flags().Int64Var(&flags.Seed, "seed", mockdata.DefaultSeed, "Seed for --sample")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "", "Output format (table|json|yaml), defaults to output.format")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")

	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{config.FormatTable, config.FormatJSON, config.FormatYAML})
	})
}

// LoadManifest reads the manifest named by --manifest.
func (f *StandardFlags) LoadManifest() (*config.Manifest, error) {
	if err := ValidateFileExists(f.Manifest); err != nil {
		return nil, err
	}
	return config.LoadManifest(f.Manifest)
}

// ParseValue parses --value with support for file references. It returns
// nil when the flag is empty.
func (f *StandardFlags) ParseValue() ([]*document.Node, error) {
	if f.Value == "" {
		return nil, nil
	}

	data := []byte(f.Value)
	if strings.HasPrefix(f.Value, "@") {
		filename := strings.TrimPrefix(f.Value, "@")
		var err error
		data, err = os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read value file %s: %w", filename, err)
		}
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in value: %w", err)
	}
	return document.FromValue(raw)
}

// Format returns the output format, falling back to the configured default.
func (f *StandardFlags) Format(cfg *config.Config) string {
	if f.OutputFormat != "" {
		return f.OutputFormat
	}
	if cfg != nil && cfg.Output.Format != "" {
		return cfg.Output.Format
	}
	return config.DefaultOutputFormat
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.OutputFormat != "" {
		if err := ValidateFormatWithSuggestion(f.OutputFormat,
			[]string{config.FormatTable, config.FormatJSON, config.FormatYAML}); err != nil {
			return err
		}
	}

	if f.Sample && f.Value != "" {
		return fmt.Errorf("cannot specify both --sample and --value")
	}

	// Quiet and verbose are mutually exclusive
	if f.Quiet && f.Verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}

	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	originalSet := flag.Value.Set

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateFormatWithSuggestion rejects a format outside valid and suggests
// the closest match.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	msg := fmt.Sprintf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
	for _, v := range valid {
		if format != "" && (strings.HasPrefix(v, strings.ToLower(format)) || strings.HasPrefix(strings.ToLower(format), v)) {
			return fmt.Errorf("%s (did you mean %q?)", msg, v)
		}
	}
	return fmt.Errorf("%s", msg)
}

// ValidateFileExists checks that filename exists
func ValidateFileExists(filename string) error {
	if filename == "" {
		return fmt.Errorf("no file given")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(cmd *cobra.Command, format string, v interface{}) error {
	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
