package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded upload outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled in the configuration")
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if pruneDays > 0 {
				cutoff := time.Now().Add(-time.Duration(pruneDays) * 24 * time.Hour)
				deleted, err := store.Prune(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d entries older than %d days\n", deleted, pruneDays)
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No upload history recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.BaseName,
					string(entry.Kind),
					strings.Join(entry.Platforms, ", "),
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.Detail,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Video", "Result", "Platforms", "Recorded", "Detail"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of entries to show")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete entries older than this many days before listing")
	return cmd
}
