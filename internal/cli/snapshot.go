package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/distortviz/pkg/snapshot"
)

// snapshotCommand manages saved views.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List and export saved views",
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotExportCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSnapshots(cmd.Context(), func(store snapshot.Store) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo(c.out, "No snapshots")
					return nil
				}
				for _, s := range list {
					name := s.Name
					if name == "" {
						name = "-"
					}
					fmt.Fprintf(c.out, "%s  %s  %s\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), name)
				}
				return nil
			})
		},
	}
}

func (c *CLI) snapshotExportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a saved snapshot as JSON, DOT, SVG, PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := snapshot.ValidateID(args[0]); err != nil {
				return err
			}
			return c.withSnapshots(cmd.Context(), func(store snapshot.Store) error {
				snap, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := exportSnapshot(cmd.Context(), snap, format, c.Config.Layout.Width)
				if err != nil {
					return err
				}
				if output == "" {
					_, err := c.out.Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
				printFile(c.out, output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, svg, dot, pdf, png")

	return cmd
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := snapshot.ValidateID(args[0]); err != nil {
				return err
			}
			return c.withSnapshots(cmd.Context(), func(store snapshot.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(c.out, "Deleted snapshot %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) withSnapshots(ctx context.Context, fn func(snapshot.Store) error) error {
	store, err := c.Config.OpenSnapshots(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// exportSnapshot encodes a stored snapshot. JSON keeps the id and name.
func exportSnapshot(ctx context.Context, snap *snapshot.Snapshot, format string, width float64) ([]byte, error) {
	if format == formatJSON {
		return json.MarshalIndent(snap, "", "  ")
	}
	v := snap.View
	v.Colors = snap.ColorTable()
	return exportView(ctx, v, format, width)
}
