package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// layoutCommand creates the layout command for computing station layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  storeFlags
		asJSON bool
		area   string
	)

	cmd := &cobra.Command{
		Use:   "layout [station.toml]",
		Short: "Compute the layout of a station",
		Long: `Compute the layout of a station.

The layout command reads a station description, restores the sizes saved in
the layout store and prints the resulting columns and cells with their
bounds. Use --area to lay the station out in a different area than the one
the description names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, area, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().StringVar(&area, "area", "", "override the area (WIDTHxHEIGHT)")

	return cmd
}

// runLayout loads the station and prints its layout.
func (c *CLI) runLayout(ctx context.Context, path string, flags storeFlags, area string, asJSON bool) error {
	ws, err := c.openWorkspace(ctx, path, flags)
	if err != nil {
		return err
	}
	defer ws.Close()

	if area != "" {
		size, err := parseSize(area)
		if err != nil {
			return err
		}
		r := ws.cfg.Area.Rect()
		r.Width, r.Height = size.Width, size.Height
		ws.st.UpdateBounds(r)
	}

	p := newProgress(c.Logger)
	report := newReport(ws.st, ws.label)
	p.done(fmt.Sprintf("Laid out %d columns", len(report.Columns)))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	printNewline()
	printNextStep("Drag a divider", appName+" drag "+path+" --at X,Y --to X,Y")
	return nil
}
