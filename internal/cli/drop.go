package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/span"
	"github.com/matzehuels/sidedock/pkg/tree"
)

// dropOptions are the flags of the drop command.
type dropOptions struct {
	flags     storeFlags
	target    int64
	side      string
	content   int64
	label     string
	preferred string
	minimum   string
	output    string
	dryRun    bool
}

// dropCommand creates the drop command, which commits a placement.
func (c *CLI) dropCommand() *cobra.Command {
	var opts dropOptions

	cmd := &cobra.Command{
		Use:   "drop [station.toml]",
		Short: "Place content next to a target and keep the other sizes",
		Long: `Place content next to a target and keep the other sizes.

Header placements (before-header, after-header) open a new column next to the
target's column; column placements (before-column, after-column) add a cell
next to the target inside its column. Content already in the station is
moved. Every other column keeps its saved size.

The edited tree is written back to the description (or --output) and the
sizes are saved to the layout store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDrop(cmd.Context(), args[0], opts)
		},
	}

	opts.flags.register(cmd)
	cmd.Flags().Int64Var(&opts.target, "target", 0, "content ID to place next to (0: empty station)")
	cmd.Flags().StringVar(&opts.side, "side", "after-header", "placement: before-header, after-header, before-column, after-column")
	cmd.Flags().Int64Var(&opts.content, "content", 0, "content ID to place")
	cmd.Flags().StringVar(&opts.label, "label", "", "display label for new content")
	cmd.Flags().StringVar(&opts.preferred, "preferred", "200x200", "preferred size (WIDTHxHEIGHT)")
	cmd.Flags().StringVar(&opts.minimum, "minimum", "50x50", "minimum size (WIDTHxHEIGHT)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the edited description here (default: overwrite input)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the result without writing anything")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func (c *CLI) runDrop(ctx context.Context, path string, opts dropOptions) error {
	placement, err := span.ParsePlacement(opts.side)
	if err != nil {
		return err
	}
	preferred, err := parseSize(opts.preferred)
	if err != nil {
		return err
	}
	minimum, err := parseSize(opts.minimum)
	if err != nil {
		return err
	}

	ws, err := c.openWorkspace(ctx, path, opts.flags)
	if err != nil {
		return err
	}
	defer ws.Close()

	t := ws.st.Tree()
	target := t.Root()
	if opts.target != 0 {
		target = t.LeafOf(tree.ContentID(opts.target))
		if target == tree.Nil {
			return fmt.Errorf("target content %d is not in the station", opts.target)
		}
	}

	content := tree.ContentID(opts.content)
	if _, err := ws.st.Drop(span.Request{Target: target, Side: placement}, content, preferred, minimum); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if opts.label != "" {
		ws.labels[content] = opts.label
	}
	ws.st.Flush()

	report := newReport(ws.st, ws.label)
	if !opts.dryRun {
		if err := ws.writeDescription(opts.output); err != nil {
			return err
		}
		if err := ws.save(ctx); err != nil {
			return err
		}
	}

	printSuccess("Placed %s %s", ws.label(content), placement)
	printKeyValue("Columns", fmt.Sprint(report.sizes()))
	if !opts.dryRun {
		out := opts.output
		if out == "" {
			out = path
		}
		printFile(out)
	}
	return nil
}
