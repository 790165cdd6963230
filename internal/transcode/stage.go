// Package transcode converts the best available artifact into the target
// container and codec.
package transcode

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"recut/internal/artifact"
	"recut/internal/config"
	"recut/internal/logging"
	"recut/internal/services"
	"recut/internal/toolrun"
)

// Runner executes the codec-conversion tool.
type Runner interface {
	RunPlain(ctx context.Context, tool toolrun.Tool) error
}

// Stage invokes the converter against whichever artifact is currently best.
type Stage struct {
	cfg    *config.Config
	runner Runner
	logger *slog.Logger
}

// NewStage constructs the transcode stage.
func NewStage(cfg *config.Config, runner Runner, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		cfg:    cfg,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "transcode"),
	}
}

// OutputPath returns where the transcoded artifact lands: the original's
// directory and basename with the target extension.
func (s *Stage) OutputPath(originalPath string) string {
	stem := strings.TrimSuffix(originalPath, filepath.Ext(originalPath))
	return stem + s.cfg.Transcode.TargetExtension
}

// Process transcodes the tracker's best artifact in place next to the
// original and promotes the result on success. Converter failures are
// logged and swallowed; the run continues with the previous best. A zero
// exit from the converter is taken at face value even though it only
// proves the tool finished muxing, not that the encode is complete.
func (s *Stage) Process(ctx context.Context, tracker *artifact.Tracker) {
	ctx = services.WithStage(ctx, "transcode")
	input := tracker.Best()
	output := s.OutputPath(tracker.Original())
	err := s.runner.RunPlain(ctx, toolrun.Tool{
		Name:   "converter",
		Binary: s.cfg.Tools.Converter,
		Args: []string{
			"--input", input,
			"--output", output,
			"--quality", strconv.Itoa(s.cfg.Transcode.Quality),
			"--aencoder", s.cfg.Transcode.AudioPolicy,
		},
	})
	if err != nil {
		s.logger.Warn("transcode failed, keeping previous artifact",
			logging.String("input", input),
			logging.Error(err))
		return
	}
	if err := tracker.Promote(artifact.StageTranscoded, output); err != nil {
		s.logger.Warn("could not promote transcoded artifact", logging.Error(err))
		return
	}
	tracker.TranscodeSucceeded = true
	s.logger.Info("transcode finished", logging.String("output", output))
}
