package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crosscast/internal/library"
	"crosscast/internal/status"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [folder]",
		Short: "List videos waiting to be uploaded",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			tracker := status.NewTracker(logger)
			scanner := library.NewScanner(cfg, tracker, logger)

			var files []library.FileInfo
			if len(args) == 1 {
				files, err = scanner.ScanFolder(args[0])
				if err != nil {
					return err
				}
			} else {
				files = scanner.Scan()
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No videos waiting for upload.")
				return nil
			}
			rows := make([][]string, 0, len(files))
			for _, file := range files {
				rows = append(rows, []string{
					file.Folder,
					file.Name,
					file.Title,
					strings.Join(file.Platforms, ", "),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Folder", "Video", "Title", "Platforms"}, rows))
			return nil
		},
	}
}
