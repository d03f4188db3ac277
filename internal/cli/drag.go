package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/bounds"
)

// dragCommand creates the drag command, which moves one divider.
func (c *CLI) dragCommand() *cobra.Command {
	var (
		flags  storeFlags
		at, to string
		ratio  float64
	)

	cmd := &cobra.Command{
		Use:   "drag [station.toml]",
		Short: "Drag a divider and keep the new sizes",
		Long: `Drag a divider and keep the new sizes.

The divider under --at is moved to --to (or set to --ratio). The proposed
position is validated first: no region shrinks below its minimum size, and
the region nearer the docked edge keeps room for its own minimum. The
resulting sizes are saved to the layout store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" && !cmd.Flags().Changed("ratio") {
				return fmt.Errorf("one of --to or --ratio is required")
			}
			return c.runDrag(cmd.Context(), args[0], flags, at, to, ratio)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&at, "at", "", "pointer position on the divider (X,Y)")
	cmd.Flags().StringVar(&to, "to", "", "pointer position to drag to (X,Y)")
	cmd.Flags().Float64Var(&ratio, "ratio", 0, "ratio to set instead of --to")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func (c *CLI) runDrag(ctx context.Context, path string, flags storeFlags, at, to string, ratio float64) error {
	from, err := parsePoint(at)
	if err != nil {
		return err
	}

	ws, err := c.openWorkspace(ctx, path, flags)
	if err != nil {
		return err
	}
	defer ws.Close()

	d, ok := ws.st.DividerAt(from)
	if !ok {
		printWarning("No divider at %d,%d", from.X, from.Y)
		return nil
	}

	proposed := ratio
	if to != "" {
		p, err := parsePoint(to)
		if err != nil {
			return err
		}
		proposed = ws.st.RatioAt(d, p)
	}
	valid := ws.st.SetDivider(d, proposed)
	ws.st.Flush()

	if err := ws.save(ctx); err != nil {
		return err
	}

	printSuccess("Moved %s divider", d.Kind)
	printKeyValue("Divider", d.String())
	printKeyValue("Proposed", fmt.Sprintf("%.4f", proposed))
	printKeyValue("Validated", fmt.Sprintf("%.4f", valid))
	if valid != proposed {
		printDetail("clamped to keep minimum sizes")
	}
	if d.Kind != bounds.Internal {
		printKeyValue("Position", fmt.Sprint(ws.st.PositionAt(d, valid)))
	}
	printKeyValue("Columns", fmt.Sprint(newReport(ws.st, ws.label).sizes()))
	return nil
}
