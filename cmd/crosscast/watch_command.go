package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"crosscast/internal/daemon"
	"crosscast/internal/library"
	"crosscast/internal/platforms"
	"crosscast/internal/status"
	"crosscast/internal/uploader"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the drop folders and upload new videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			tracker := status.NewTracker(logger)
			scanner := library.NewScanner(cfg, tracker, logger)
			manager := uploader.NewManager(cfg, tracker, store, logger)
			if cfg.Paths.ArchiveDir != "" {
				manager.RegisterPlatform(platforms.NewDir("archive", cfg.Paths.ArchiveDir))
			}
			pool := uploader.NewPool(manager)

			d, err := daemon.New(cfg, tracker, scanner, pool, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "crosscast is watching; press Ctrl-C to stop")

			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}
