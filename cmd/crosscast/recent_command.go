package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crosscast/internal/status"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent [folder]",
		Short: "Show recently uploaded videos",
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

			var records []status.Record
			for _, folder := range folders {
				records = append(records, tracker.Recent(folder.Dir, limit)...)
			}
			// Re-sort across folders; per-folder results are already sorted.
			if len(folders) > 1 {
				records = mergeRecent(records, limit)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No recent uploads.")
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.BaseName,
					string(record.Kind),
					record.Timestamp.Format(time.DateTime),
					firstLine(record.Content),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Video", "Status", "Uploaded", "Detail"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of uploads to show")
	return cmd
}

func mergeRecent(records []status.Record, limit int) []status.Record {
	if limit <= 0 {
		limit = 10
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func firstLine(content string) string {
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		return content[:idx]
	}
	return content
}
