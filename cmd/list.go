package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/editor"
	"github.com/conneroisu/plate/internal/normalizers"
	"github.com/conneroisu/plate/internal/presets"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List presets, components and core plugins",
	Long: `List what a manifest can reference: plugin presets (for presets: and
preset:), registered components (for component: and override.components)
and the core plugins every editor starts with.

Examples:
  plate list            # List everything as tables
  plate list -o json    # Output as JSON`,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
}

// PresetInfo describes one preset.
type PresetInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Plugins []string `json:"plugins" yaml:"plugins"`
}

// ComponentListing describes one registered component.
type ComponentListing struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog is the structured output of list.
type Catalog struct {
	Presets    []PresetInfo       `json:"presets" yaml:"presets"`
	Components []ComponentListing `json:"components" yaml:"components"`
	Core       []string           `json:"core" yaml:"core"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return err
	}
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	catalog := buildCatalog()
	format := listFlags.Format(cfg)
	if format != config.FormatTable {
		return writeStructured(cmd, format, catalog)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPLUGINS")
	for _, p := range catalog.Presets {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, strings.Join(p.Plugins, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMPONENT\tDESCRIPTION")
	for _, c := range catalog.Components {
		fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "CORE\t%s\n", strings.Join(catalog.Core, ", "))
	return w.Flush()
}

func buildCatalog() Catalog {
	var catalog Catalog

	for _, name := range presets.Names() {
		plugins, _ := presets.Lookup(name)
		catalog.Presets = append(catalog.Presets, PresetInfo{Name: name, Plugins: flatKeys(plugins)})
	}
	catalog.Presets = append(catalog.Presets, PresetInfo{
		Name:    normalizers.KeyNormalizeTypes,
		Plugins: []string{normalizers.KeyNormalizeTypes},
	})

	reg := newComponentRegistry()
	for _, name := range reg.Names() {
		info, _ := reg.Info(name)
		catalog.Components = append(catalog.Components, ComponentListing{Name: name, Description: info.Description})
	}

	catalog.Core = editor.CoreKeys()
	return catalog
}

func flatKeys(plugins []*editor.Plugin) []string {
	flat := editor.Flatten(plugins)
	keys := make([]string, len(flat))
	for i, p := range flat {
		keys[i] = p.Key
	}
	return keys
}
