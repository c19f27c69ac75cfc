package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crosscast/internal/config"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <file>",
		Short: "Remove all status markers for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := ctx.tracker()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !tracker.Cleanup(path) {
				return fmt.Errorf("could not remove markers for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed markers for %s\n", path)
			return nil
		},
	}
}

func newExpireCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "expire [folder]",
		Short: "Delete old status markers from the drop folders",
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

			age := time.Duration(days) * 24 * time.Hour
			total := 0
			for _, folder := range folders {
				total += tracker.ExpireOlderThan(folder.Dir, age)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d markers older than %d days\n", total, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Delete markers older than this many days")
	return cmd
}
