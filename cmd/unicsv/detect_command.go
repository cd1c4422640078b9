package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"unicsv/internal/transcoder"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "detect <file>...",
		Short:       "Report the byte-order-mark encoding of each file",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve path: %w", err)
				}
				enc := transcoder.DetectEncoding(path)
				bom := "-"
				if mark := enc.BOM(); mark != nil {
					bom = fmt.Sprintf("%X", mark)
				}
				rows = append(rows, []string{arg, enc.String(), bom})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderRows([]string{"File", "Encoding", "BOM"}, rows))
			return nil
		},
	}
}
