package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crosscast/internal/config"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "status <file>",
		Short: "Show the upload status of a video",
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

			record := tracker.Status(path)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", record.BaseName, renderRecord(record, shouldColorize(out)))
			if verbose && record.Content != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, record.Content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the full marker contents")
	return cmd
}
