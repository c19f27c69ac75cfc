package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [folder]",
		Short: "Show per-folder upload counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var folderName string
			if len(args) == 1 {
				folderName = args[0]
			}
			folders, err := ctx.foldersFor(folderName)
			if err != nil {
				return err
			}
			tracker, err := ctx.tracker()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(folders))
			for _, folder := range folders {
				counts := tracker.Aggregate(folder.Dir)
				rows = append(rows, []string{
					folder.Name,
					strconv.Itoa(counts.Total),
					strconv.Itoa(counts.Completed),
					strconv.Itoa(counts.Failed),
					strconv.Itoa(counts.Uploading),
					strconv.Itoa(counts.Partial),
					strconv.Itoa(counts.Pending),
				})
			}

			headers := []string{"Folder", "Total", "Completed", "Failed", "Uploading", "Partial", "Pending"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 1, 2, 3, 4, 5, 6))
			return nil
		},
	}
}
