package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/logging"
	"github.com/conneroisu/plate/internal/mockdata"
	"github.com/conneroisu/plate/internal/registry"
	"github.com/conneroisu/plate/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var composeCmd = &cobra.Command{
	Use:     "compose",
	Aliases: []string{"c"},
	Short:   "Compose an editor and show its resolved plugin list",
	Long: `Compose the editor described by a manifest and print the resolved
plugin list: core plugins first, then the manifest's plugins flattened
depth-first, with overrides applied and disabled subtrees removed.

Examples:
  plate compose                        # Compose plate.yaml as a table
  plate compose -m editor.yaml -o json # Output as JSON
  plate compose -o yaml --document     # Include the normalized document
  plate compose --sample -d -o json    # Show a generated sample document`,
	RunE: runCompose,
}

var (
	composeFlags    *StandardFlags
	composeDocument bool
)

func init() {
	rootCmd.AddCommand(composeCmd)

	composeFlags = AddStandardFlags(composeCmd, "manifest", "document", "output")
	composeCmd.Flags().BoolVarP(&composeDocument, "document", "d", false, "Include the normalized document")
}

// PluginSummary is the printable form of a resolved plugin.
type PluginSummary struct {
	Key          string   `json:"key" yaml:"key"`
	Type         string   `json:"type" yaml:"type"`
	Priority     int      `json:"priority" yaml:"priority"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	Parents      []string `json:"parents,omitempty" yaml:"parents,omitempty"`
	HasComponent bool     `json:"component" yaml:"component"`
	Handlers     []string `json:"handlers,omitempty" yaml:"handlers,omitempty"`
}

// ComposeResult is the structured output of compose.
type ComposeResult struct {
	ID       string                   `json:"id" yaml:"id"`
	Plugins  []PluginSummary          `json:"plugins" yaml:"plugins"`
	Document []map[string]interface{} `json:"document,omitempty" yaml:"document,omitempty"`
}

func runCompose(cmd *cobra.Command, args []string) error {
	if err := composeFlags.ValidateFlags(); err != nil {
		return err
	}
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	e, err := composeFromFlags(contextOf(cmd), composeFlags, newComponentRegistry(), logger)
	if err != nil {
		return err
	}

	result := summarize(e, composeDocument)
	format := composeFlags.Format(cfg)
	if format == config.FormatTable {
		return writeComposeTable(cmd, result, composeFlags.Verbose)
	}
	return writeStructured(cmd, format, result)
}

// newComponentRegistry returns the registry the CLI resolves manifest
// component names against.
func newComponentRegistry() *registry.ComponentRegistry {
	reg := registry.NewComponentRegistry()
	render.RegisterDefaults(reg)
	return reg
}

// composeFromFlags loads the manifest, applies --value and composes.
func composeFromFlags(ctx context.Context, flags *StandardFlags, reg *registry.ComponentRegistry, logger logging.Logger) (*editor.Editor, error) {
	manifest, err := flags.LoadManifest()
	if err != nil {
		return nil, err
	}
	return composeManifest(ctx, manifest, flags, reg, logger)
}

func composeManifest(ctx context.Context, manifest *config.Manifest, flags *StandardFlags, reg *registry.ComponentRegistry, logger logging.Logger) (*editor.Editor, error) {
	value, err := flags.ParseValue()
	if err != nil {
		return nil, err
	}

	cfg, slate, err := manifest.Build(reg)
	if err != nil {
		return nil, err
	}
	if value != nil {
		slate.Value = value
	}

	e := editor.New()
	e.Logger = logger
	op := logging.StartOperation(logger.With("id", manifest.ID), "compose")
	if _, err := editor.WithPlate(e, cfg); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	if flags.Sample {
		sample, err := mockdata.NewGenerator(flags.Seed).Document(e)
		if err != nil {
			op.EndWithError(ctx, err)
			return nil, err
		}
		slate.Value = sample
	}
	if _, err := editor.WithSlate(e, slate); err != nil {
		op.EndWithError(ctx, err)
		return nil, err
	}
	op.End(ctx)
	return e, nil
}

func summarize(e *editor.Editor, withDocument bool) ComposeResult {
	result := ComposeResult{ID: e.ID, Plugins: make([]PluginSummary, 0, len(e.PluginList))}
	for _, p := range e.PluginList {
		result.Plugins = append(result.Plugins, PluginSummary{
			Key:          p.Key,
			Type:         p.NodeType(),
			Priority:     p.Priority,
			Enabled:      p.IsEnabled(),
			Parents:      p.ParentKeys,
			HasComponent: p.Component != nil,
			Handlers:     handlerNames(p),
		})
	}
	if withDocument {
		result.Document = make([]map[string]interface{}, len(e.Children))
		for i, n := range e.Children {
			result.Document[i] = n.ToMap()
		}
	}
	return result
}

func handlerNames(p *editor.Plugin) []string {
	var names []string
	h := p.Handlers
	if h.ExtendEditor != nil {
		names = append(names, "extendEditor")
	}
	if h.OnKeyDown != nil {
		names = append(names, "keyDown")
	}
	if h.OnChange != nil {
		names = append(names, "change")
	}
	if len(h.Normalize) > 0 {
		names = append(names, "normalize")
	}
	if len(h.DeserializeHTML) > 0 {
		names = append(names, "html")
	}
	return names
}

func writeComposeTable(cmd *cobra.Command, result ComposeResult, verbose bool) error {
	header := []string{"key", "type", "priority", "enabled", "component"}
	if verbose {
		header = append(header, "parents", "handlers")
	}
	title := cases.Upper(language.English)
	for i, h := range header {
		header[i] = title.String(h)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "EDITOR %s (%d plugins)\n", result.ID, len(result.Plugins))
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, p := range result.Plugins {
		row := []string{p.Key, p.Type, strconv.Itoa(p.Priority), yesNo(p.Enabled), yesNo(p.HasComponent)}
		if verbose {
			row = append(row, dashIfEmpty(strings.Join(p.Parents, "/")), dashIfEmpty(strings.Join(p.Handlers, ",")))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
