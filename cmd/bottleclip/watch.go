package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags    exportFlags
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch JOBFILE",
		Short: "Re-export a job whenever its file changes",
		Long: `Exports every clip of a YAML or TOML job file, then exports again each time
the file is saved. Failed exports are logged and the watch goes on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch.File(ctx, args[0], debounce, func(ctx context.Context) error {
				return runJob(ctx, cmd.OutOrStdout(), flags.exporter(a), args[0], flags.out, !flags.noRender)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet time before re-exporting")
	return cmd
}
