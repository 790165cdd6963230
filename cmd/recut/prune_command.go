package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recut/internal/librarylink"
	"recut/internal/logging"
)

func newPruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Sweep the library for broken links and empty directories",
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

			manager := librarylink.NewManager(cfg, logger)
			links, err := manager.PruneBrokenLinks("")
			if err != nil {
				return fmt.Errorf("prune broken links: %w", err)
			}
			dirs, err := manager.PruneEmptyDirs()
			if err != nil {
				return fmt.Errorf("prune empty directories: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d broken links and %d empty directories.\n", links, dirs)
			return nil
		},
	}
}
