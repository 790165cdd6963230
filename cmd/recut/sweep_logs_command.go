package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recut/internal/logging"
	"recut/internal/runlog"
)

func newSweepLogsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-logs",
		Short: "Delete run logs older than the configured retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, "")
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			if cfg.Logging.RetentionDays <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Log retention is disabled (retention_days is 0).")
				return nil
			}
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
				logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "recut_*.log"},
				logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "recut_*.log" + runlog.FailedSuffix},
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Swept logs older than %d days from %s.\n",
				cfg.Logging.RetentionDays, cfg.Paths.LogDir)
			return nil
		},
	}
}
