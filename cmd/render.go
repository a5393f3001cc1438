package cmd

import (
	"fmt"
	"os"

	"github.com/conneroisu/plate/internal/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:     "render",
	Aliases: []string{"r"},
	Short:   "Render an editor's document to HTML",
	Long: `Compose the editor described by a manifest, normalize its initial
document and render it to HTML. Elements whose plugin has a component are
rendered by that component; everything else uses plain HTML tags.

Examples:
  plate render                              # Render plate.yaml's document
  plate render --value @doc.json            # Render another document
  plate render --sample --seed 7            # Render sample content for every plugin
  plate render -m editor.yaml --out doc.html`,
	RunE: runRender,
}

var (
	renderFlags *StandardFlags
	renderOut   string
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderFlags = AddStandardFlags(renderCmd, "manifest", "document")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "Write the HTML to a file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := renderFlags.ValidateFlags(); err != nil {
		return err
	}
	_, logger, err := loadSettings()
	if err != nil {
		return err
	}

	e, err := composeFromFlags(contextOf(cmd), renderFlags, newComponentRegistry(), logger)
	if err != nil {
		return err
	}

	out, err := render.HTML(contextOf(cmd), e)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}

	if renderOut != "" {
		if err := os.WriteFile(renderOut, []byte(out+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOut, err)
		}
		logger.Info(contextOf(cmd), "Rendered document", "path", renderOut, "bytes", len(out))
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
