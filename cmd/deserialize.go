package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/conneroisu/plate/internal/config"
	"github.com/conneroisu/plate/internal/deserialize"
	"github.com/conneroisu/plate/internal/document"
	"github.com/spf13/cobra"
)

var deserializeCmd = &cobra.Command{
	Use:     "deserialize [file]",
	Aliases: []string{"d"},
	Short:   "Convert HTML, text or a fragment into document nodes",
	Long: `Deserialize pasted content through the plugins of a composed editor
and print the resulting nodes. The input is read from the file argument, or
from stdin when no file is given.

Supported types:
  text/html                     HTML, matched against the plugins' rules
  text/plain                    one paragraph per line
  application/x-slate-fragment  an encoded fragment, as produced by --encode

Examples:
  plate deserialize page.html                     # HTML to JSON nodes
  cat notes.txt | plate deserialize -t text/plain
  plate deserialize page.html --encode            # Encoded fragment
  plate deserialize page.html --insert            # Insert into the document`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeserialize,
}

var (
	deserializeFlags  *StandardFlags
	deserializeType   string
	deserializeEncode bool
	deserializeInsert bool
)

func init() {
	rootCmd.AddCommand(deserializeCmd)

	deserializeFlags = AddStandardFlags(deserializeCmd, "manifest", "output")
	deserializeCmd.Flags().StringVarP(&deserializeType, "type", "t", deserialize.MIMEHTML, "Input MIME type")
	deserializeCmd.Flags().BoolVar(&deserializeEncode, "encode", false, "Print the nodes as an encoded fragment")
	deserializeCmd.Flags().BoolVar(&deserializeInsert, "insert", false, "Insert the nodes into the manifest's document and print the document")

	AddFlagValidation(deserializeCmd, "type", func(mime string) error {
		return ValidateFormatWithSuggestion(mime,
			[]string{deserialize.MIMEHTML, deserialize.MIMEText, deserialize.MIMEFragment})
	})
}

func runDeserialize(cmd *cobra.Command, args []string) error {
	if err := deserializeFlags.ValidateFlags(); err != nil {
		return err
	}
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	e, err := composeFromFlags(contextOf(cmd), deserializeFlags, newComponentRegistry(), logger)
	if err != nil {
		return err
	}

	var nodes []*document.Node
	if deserializeInsert {
		if _, err := deserialize.InsertData(e, deserializeType, input); err != nil {
			return err
		}
		nodes = e.Children
	} else {
		nodes, err = deserialize.Parse(e, deserializeType, input)
		if err != nil {
			return err
		}
	}

	if deserializeEncode {
		encoded, err := deserialize.EncodeAST(nodes)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
		return err
	}

	format := deserializeFlags.Format(cfg)
	if format == config.FormatTable {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, n := range nodes {
			typ := n.Type
			if n.IsText() {
				typ = "(text)"
			}
			fmt.Fprintf(w, "%s\t%q\n", typ, document.String(n))
		}
		return w.Flush()
	}

	out := make([]map[string]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = n.ToMap()
	}
	return writeStructured(cmd, format, out)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
