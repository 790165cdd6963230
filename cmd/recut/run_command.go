package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
	"recut/internal/logging"
	"recut/internal/pipeline"
	"recut/internal/runlog"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run <chanid> <starttime>",
		Short: "Process one recording end to end",
		Long: "Runs the full post-recording pipeline for the recording identified by " +
			"its channel id and start-time key: commercial removal, transcode, catalog " +
			"reconciliation, and library link maintenance.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			chanID, startTime := args[0], args[1]

			run, err := runlog.New(cfg, chanID)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, run.Path)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			logger = logger.With(logging.String(logging.FieldRunID, run.ID))

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			return pipeline.New(cfg, store, run, logger).Run(cmd.Context(), chanID, startTime)
		},
	}
}
