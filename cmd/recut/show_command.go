package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
	"recut/internal/librarylink"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chanid> <starttime>",
		Short: "Show a recording's catalog row and library placement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			record, err := store.GetRecording(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			seekRows, markupRows, err := store.DerivedRowCounts(cmd.Context(), record.ChanID, record.StartTime)
			if err != nil {
				return err
			}

			kind := "episode"
			if record.IsMovie() {
				kind = "movie"
			}
			rows := [][2]string{
				{"Channel", record.ChanID},
				{"Start time", record.StartTime},
				{"Title", record.Title},
				{"Subtitle", record.Subtitle},
				{"Type", kind},
				{"Storage group", record.StorageGroup},
				{"Basename", record.Basename},
				{"Filesize", strconv.FormatInt(record.Filesize, 10)},
				{"Flag status", record.FlagStatus.String()},
				{"Transcoded", strconv.FormatBool(record.Transcoded)},
				{"Seek rows", strconv.FormatInt(seekRows, 10)},
				{"Bookmark rows", strconv.FormatInt(markupRows, 10)},
				{"Library link", librarylink.LinkPath(cfg, record, record.Basename)},
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValueTable("Recording", rows, shouldColorize(out)))
			return nil
		},
	}
}
