// Package commercials implements the commercial-removal stage: detection,
// cut-list generation, and lossless extraction of a commercial-free
// intermediate artifact.
package commercials

import (
	"context"
	"log/slog"
	"path/filepath"

	"recut/internal/artifact"
	"recut/internal/catalog"
	"recut/internal/config"
	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/toolrun"
)

// FlagWriter persists the commercial-flag status after detection succeeds.
type FlagWriter interface {
	SetFlagStatus(ctx context.Context, chanID, startTime string, status catalog.FlagStatus) error
}

// Runner executes the external detection and cutting tools.
type Runner interface {
	RunDetection(ctx context.Context, tool toolrun.Tool) (int, error)
	RunPlain(ctx context.Context, tool toolrun.Tool) error
}

// Stage drives the commercial sub-pipeline for one recording.
type Stage struct {
	cfg    *config.Config
	flags  FlagWriter
	runner Runner
	logger *slog.Logger
}

// NewStage constructs the commercial stage.
func NewStage(cfg *config.Config, flags FlagWriter, runner Runner, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		cfg:    cfg,
		flags:  flags,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "commercials"),
	}
}

// Process runs the commercial sub-pipeline against the tracker's original
// artifact. Tool failures short-circuit the remaining sub-steps and are not
// returned; the caller carries on with whatever artifact is best. The only
// error returned is the fatal concurrency conflict when another job is
// already flagging this recording.
func (s *Stage) Process(ctx context.Context, record *catalog.Record, tracker *artifact.Tracker) error {
	ctx = services.WithStage(ctx, "commercials")
	switch record.FlagStatus {
	case catalog.FlagProcessing:
		return services.Wrap(services.ErrDataIntegrity, "commercials", "entry",
			"another job is flagging this recording", nil)
	case catalog.FlagCommercialFree:
		s.logger.Info("channel marked commercial free in catalog, skipping commercial removal")
		return nil
	}
	if s.cfg.IsCommercialFreeChannel(record.ChanID) {
		s.logger.Info("channel on commercial-free allow list, skipping commercial removal",
			logging.String("chan_id", record.ChanID))
		return nil
	}

	flagged := record.FlagStatus == catalog.FlagDone
	if flagged {
		s.logger.Info("commercials already flagged, skipping detection")
	} else {
		flagged = s.detect(ctx, record)
	}
	if !flagged {
		return nil
	}
	tracker.CommercialsFlagged = true

	if !s.generateCutList(ctx, record) {
		return nil
	}
	tracker.CutListGenerated = true

	s.extract(ctx, record, tracker)
	return nil
}

// detect runs the detection tool and records a successful result in the
// catalog. Reports whether flagging is now complete.
func (s *Stage) detect(ctx context.Context, record *catalog.Record) bool {
	args := []string{"--chanid", record.ChanID, "--starttime", record.StartTime}
	if s.cfg.Tools.FlaggerOverrides != "" {
		args = append(args, "--override-settings-file", s.cfg.Tools.FlaggerOverrides)
	}
	count, err := s.runner.RunDetection(ctx, toolrun.Tool{
		Name:   "flagger",
		Binary: s.cfg.Tools.Flagger,
		Args:   args,
	})
	if err != nil {
		s.logger.Warn("commercial detection failed, keeping original artifact", logging.Error(err))
		return false
	}
	s.logger.Info("commercial detection finished", logging.Int("commercials_found", count))
	if err := s.flags.SetFlagStatus(ctx, record.ChanID, record.StartTime, catalog.FlagDone); err != nil {
		// The next run will simply re-detect; not worth aborting over.
		s.logger.Warn("failed to record flag status", logging.Error(err))
	}
	return true
}

func (s *Stage) generateCutList(ctx context.Context, record *catalog.Record) bool {
	err := s.runner.RunPlain(ctx, toolrun.Tool{
		Name:   "cutlist",
		Binary: s.cfg.Tools.CutList,
		Args:   []string{"--chanid", record.ChanID, "--starttime", record.StartTime, "--gencutlist"},
	})
	if err != nil {
		s.logger.Warn("cut-list generation failed, keeping original artifact", logging.Error(err))
		return false
	}
	return true
}

// extract produces the commercial-free intermediate in the scratch
// directory, same container as the original, and promotes it on success.
func (s *Stage) extract(ctx context.Context, record *catalog.Record, tracker *artifact.Tracker) {
	output := filepath.Join(s.cfg.Paths.ScratchDir, record.Basename)
	err := s.runner.RunPlain(ctx, toolrun.Tool{
		Name:   "extractor",
		Binary: s.cfg.Tools.Extractor,
		Args: []string{
			"--chanid", record.ChanID,
			"--starttime", record.StartTime,
			"--honorcutlist",
			"--outfile", output,
		},
	})
	if err != nil {
		s.logger.Warn("lossless extraction failed, keeping original artifact", logging.Error(err))
		return
	}
	if err := tracker.Promote(artifact.StageCommercialFree, output); err != nil {
		s.logger.Warn("could not promote commercial-free artifact", logging.Error(err))
		return
	}
	tracker.CommercialsRemoved = true
	s.logger.Info("commercial-free artifact produced", logging.String("path", output))
}
