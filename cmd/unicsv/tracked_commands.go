package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"unicsv/internal/tracker"
	"unicsv/internal/transcoder"
)

func newTrackedCommand(ctx *commandContext) *cobra.Command {
	trackedCmd := &cobra.Command{
		Use:   "tracked",
		Short: "Manage the set of files known to be unicode delimited text",
	}

	trackedCmd.AddCommand(newTrackedListCommand(ctx))
	trackedCmd.AddCommand(newTrackedAddCommand(ctx))
	trackedCmd.AddCommand(newTrackedRemoveCommand(ctx))

	return trackedCmd
}

func newTrackedListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *tracker.Store) error {
				files, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tracked files")
					return nil
				}

				rows := make([][]string, 0, len(files))
				for _, file := range files {
					converted := "never"
					if !file.LastConvertedAt.IsZero() {
						converted = file.LastConvertedAt.Local().Format("2006-01-02 15:04:05")
					}
					rows = append(rows, []string{file.Path, file.Encoding.String(), converted})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRows([]string{"Path", "Encoding", "Last Converted"}, rows))
				return nil
			})
		},
	}
}

func newTrackedAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Track files, detecting their encoding",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *tracker.Store) error {
				for _, arg := range args {
					path, err := filepath.Abs(arg)
					if err != nil {
						return fmt.Errorf("resolve path: %w", err)
					}
					enc := transcoder.DetectEncoding(path)
					if _, err := store.Add(cmd.Context(), path, enc); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s)\n", path, enc)
				}
				return nil
			})
		},
	}
}

func newTrackedRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file>...",
		Short: "Stop tracking files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *tracker.Store) error {
				for _, arg := range args {
					path, err := filepath.Abs(arg)
					if err != nil {
						return fmt.Errorf("resolve path: %w", err)
					}
					if err := store.Remove(cmd.Context(), path); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking %s\n", path)
				}
				return nil
			})
		},
	}
}
