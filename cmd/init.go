package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Create a starter manifest and settings file",
	Long: `Create plate.yaml and .plate.yml in a directory. If no directory is
given, the current directory is used. Existing files are left alone unless
--force is set.

Examples:
  plate init                      # Basic manifest in the current directory
  plate init docs --template blog # Blog manifest with callouts and figures
  plate init --template minimal   # Paragraphs only

Available Templates:
  minimal   Paragraphs only
  basic     Blocks, lists, links, images and marks
  blog      basic plus callouts, heading anchors, figures and a title rule`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var (
	initTemplate string
	initForce    bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "basic", "Manifest template to use")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

var manifestTemplates = map[string]string{
	"minimal": `id: editor
presets: [paragraph]
editor:
  normalize: true
`,
	"basic": `id: editor
presets: [basic]
configure:
  length:
    maxLength: 10000
editor:
  autoSelect: end
  normalize: true
  value:
    - type: p
      children:
        - text: Start writing...
`,
	"blog": `id: blog
presets: [basic]
plugins:
  - key: callout
    component: Callout
    options:
      tone: info
    html:
      - nodeNames: [ASIDE]
  - key: highlight
    component: Highlight
    html:
      - nodeNames: [MARK]
        isLeaf: true
  - key: title
    preset: normalizeTypes
    options:
      rules:
        - path: [0]
          type: h1
override:
  components:
    h1: Heading
    h2: Heading
    h3: Heading
    img: Figure
editor:
  autoSelect: end
  normalize: true
  value:
    - type: h1
      children:
        - text: Untitled post
    - type: p
      children:
        - text: ""
`,
}

const settingsTemplate = `# plate settings
log:
  level: info
  format: text
output:
  format: table
watch:
  debounce: 300ms
`

func runInit(cmd *cobra.Command, args []string) error {
	manifest, ok := manifestTemplates[initTemplate]
	if !ok {
		names := make([]string, 0, len(manifestTemplates))
		for name := range manifestTemplates {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown template %q (available: %s)", initTemplate, strings.Join(names, ", "))
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := writeStarter(cmd, filepath.Join(dir, DefaultManifest), manifest); err != nil {
		return err
	}
	if err := writeStarter(cmd, filepath.Join(dir, ".plate.yml"), settingsTemplate); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nNext: plate compose -m %s\n", filepath.Join(dir, DefaultManifest))
	return nil
}

func writeStarter(cmd *cobra.Command, path, content string) error {
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠ %s already exists, skipping\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
	return nil
}
