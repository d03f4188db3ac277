package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidedock/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage saved layouts",
	}

	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	var flags storeFlags
	cmd := &cobra.Command{
		Use:   "show [station-id]",
		Short: "Print the saved layout of a station as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.Load(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				printInfo("No layout saved for %s", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVar(&flags.url, "store", "", "layout store (default: XDG data dir)")
	return cmd
}

// storeDeleteCommand creates the "store delete" subcommand.
func (c *CLI) storeDeleteCommand() *cobra.Command {
	var flags storeFlags
	cmd := &cobra.Command{
		Use:   "delete [station-id]",
		Short: "Forget the saved layout of a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted layout of %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.url, "store", "", "layout store (default: XDG data dir)")
	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every layout in the local file store",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := store.DefaultDir()
			if err != nil {
				return fmt.Errorf("get store dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Store is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() && filepath.Ext(path) == ".json" {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d saved layouts", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local file store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := store.DefaultDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
