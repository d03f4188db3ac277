package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// treeCommand creates the tree command, which renders the split tree.
func (c *CLI) treeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tree [station.toml]",
		Short: "Render the split tree of a station as DOT or SVG",
		Long: `Render the split tree of a station as DOT or SVG.

The output format follows the extension of --output: .svg renders through
Graphviz, anything else writes DOT. Without --output the DOT source is
printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg or .dot)")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, path, output string) error {
	ws, err := c.openWorkspace(ctx, path, storeFlags{noStore: true})
	if err != nil {
		return err
	}
	defer ws.Close()

	t := ws.st.Tree()
	if output == "" {
		fmt.Print(t.ToDOT(ws.labels))
		return nil
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(output), ".svg") {
		data, err = spinWhile(ctx, os.Stderr, "Rendering "+filepath.Base(output), "Render failed",
			func(context.Context) ([]byte, error) { return t.RenderSVG(ws.labels) })
		if err != nil {
			return err
		}
	} else {
		data = []byte(t.ToDOT(ws.labels))
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Rendered tree")
	printFile(output)
	return nil
}
