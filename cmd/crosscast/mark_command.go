package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"crosscast/internal/config"
	"crosscast/internal/status"
)

func newMarkCommand(ctx *commandContext) *cobra.Command {
	markCmd := &cobra.Command{
		Use:   "mark",
		Short: "Set a video's upload status by hand",
	}

	markCmd.AddCommand(newMarkCompletedCommand(ctx))
	markCmd.AddCommand(newMarkFailedCommand(ctx))
	markCmd.AddCommand(newMarkPartialCommand(ctx))
	markCmd.AddCommand(newMarkCancelledCommand(ctx))
	markCmd.AddCommand(newMarkUploadingCommand(ctx))

	return markCmd
}

func newMarkCompletedCommand(ctx *commandContext) *cobra.Command {
	var platforms []string
	var details string

	cmd := &cobra.Command{
		Use:   "completed <file>",
		Short: "Mark a video as successfully uploaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, path, err := markTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if !tracker.MarkCompleted(path, platforms, details) {
				return fmt.Errorf("could not write COMPLETED marker for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s COMPLETED\n", path)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&platforms, "platforms", "p", nil, "Platforms the video was uploaded to")
	cmd.Flags().StringVarP(&details, "details", "d", "", "Extra detail recorded in the marker")
	return cmd
}

func newMarkFailedCommand(ctx *commandContext) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "failed <file>",
		Short: "Mark a video's upload as failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, path, err := markTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if !tracker.MarkFailed(path, message) {
				return fmt.Errorf("could not write ERROR marker for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s ERROR\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Error description recorded in the marker")
	return cmd
}

func newMarkPartialCommand(ctx *commandContext) *cobra.Command {
	var successful []string
	var failed []string

	cmd := &cobra.Command{
		Use:   "partial <file>",
		Short: "Mark a video as uploaded to some platforms only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(successful) == 0 && len(failed) == 0 {
				return errors.New("at least one of --successful or --failed is required")
			}
			tracker, path, err := markTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if !tracker.MarkPartial(path, successful, failed) {
				return fmt.Errorf("could not write PARTIAL marker for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s PARTIAL\n", path)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&successful, "successful", "s", nil, "Platforms that succeeded")
	cmd.Flags().StringSliceVarP(&failed, "failed", "f", nil, "Platforms that failed")
	return cmd
}

func newMarkCancelledCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancelled <file>",
		Short: "Mark a video's upload as cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, path, err := markTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if !tracker.MarkCancelled(path, reason) {
				return fmt.Errorf("could not write CANCELLED marker for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s CANCELLED\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Cancellation reason recorded in the marker")
	return cmd
}

func newMarkUploadingCommand(ctx *commandContext) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "uploading <file>",
		Short: "Mark a video as currently uploading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, path, err := markTarget(ctx, args[0])
			if err != nil {
				return err
			}
			if !tracker.Create(path, status.KindUploading, content) {
				return fmt.Errorf("could not write UPLOADING marker for %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s UPLOADING\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Extra content recorded in the marker")
	return cmd
}

func markTarget(ctx *commandContext, arg string) (*status.Tracker, string, error) {
	tracker, err := ctx.tracker()
	if err != nil {
		return nil, "", err
	}
	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, "", err
	}
	return tracker, path, nil
}
