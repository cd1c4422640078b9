package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"unicsv/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var delimiterFlag string
	var outputFlag string
	var restoreFlag bool

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Replace tab delimiters with the configured delimiter",
		Long: `Convert rewrites tab-delimited files to the configured delimiter while
preserving their text encoding byte for byte. Files without a byte-order
mark are skipped unless they are already tracked. With --restore the
conversion runs in reverse, turning delimiters back into tabs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFlag != "" && len(args) > 1 {
				return errors.New("--output works with a single input file")
			}

			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("file does not exist: %s", arg)
					}
					return fmt.Errorf("inspect file: %w", err)
				}
				if info.IsDir() {
					return fmt.Errorf("%s is a directory", arg)
				}
			}

			return ctx.withService(delimiterFlag, func(svc *pipeline.Service) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					dst := arg
					if outputFlag != "" {
						dst = outputFlag
					}

					var outcome *pipeline.Outcome
					var err error
					if restoreFlag {
						outcome, err = svc.RestoreTo(cmd.Context(), arg, dst)
					} else {
						outcome, err = svc.NormalizeTo(cmd.Context(), arg, dst)
					}
					if err != nil {
						return err
					}

					name := filepath.Base(outcome.Path)
					if !outcome.Converted {
						fmt.Fprintf(out, "Skipped %s (no byte-order mark, not tracked)\n", name)
						continue
					}
					if restoreFlag {
						fmt.Fprintf(out, "Restored %s to tab delimiters (%s)\n", name, outcome.Encoding)
					} else {
						fmt.Fprintf(out, "Converted %s to %q delimiters (%s)\n", name, string(outcome.Delimiter), outcome.Encoding)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&delimiterFlag, "delimiter", "d", "", "Replacement delimiter for this invocation")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the result to this path instead of in place")
	cmd.Flags().BoolVar(&restoreFlag, "restore", false, "Convert delimiters back to tabs")
	return cmd
}
