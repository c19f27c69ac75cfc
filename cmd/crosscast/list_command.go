package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [folder]",
		Short: "List tracked videos and their states",
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

			out := cmd.OutOrStdout()
			var rows [][]string
			for _, folder := range folders {
				records := tracker.ListAll(folder.Dir)
				names := make([]string, 0, len(records))
				for name := range records {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					record := records[name]
					rows = append(rows, []string{
						folder.Name,
						name,
						string(record.Kind),
						record.Timestamp.Format(time.DateTime),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No tracked videos found.")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Folder", "Video", "Status", "Updated"}, rows))
			return nil
		},
	}
}
