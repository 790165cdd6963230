// Package pipeline sequences the post-recording stages for one recording:
// locate, remove commercials, transcode, reconcile the catalog, and refresh
// the library's symlink view.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"recut/internal/artifact"
	"recut/internal/catalog"
	"recut/internal/commercials"
	"recut/internal/config"
	"recut/internal/librarylink"
	"recut/internal/libserver"
	"recut/internal/logging"
	"recut/internal/notify"
	"recut/internal/proc"
	"recut/internal/reconcile"
	"recut/internal/runlog"
	"recut/internal/services"
	"recut/internal/toolrun"
	"recut/internal/transcode"
)

// ToolRunner is the external-tool surface all processing stages share.
type ToolRunner interface {
	RunDetection(ctx context.Context, tool toolrun.Tool) (int, error)
	RunPlain(ctx context.Context, tool toolrun.Tool) error
}

// Option overrides a collaborator, primarily for tests.
type Option func(*Pipeline)

// WithToolRunner injects a custom tool runner.
func WithToolRunner(runner ToolRunner) Option {
	return func(p *Pipeline) {
		if runner != nil {
			p.runner = runner
		}
	}
}

// WithRefresher injects a custom library-server refresher.
func WithRefresher(refresher libserver.Refresher) Option {
	return func(p *Pipeline) {
		if refresher != nil {
			p.refresher = refresher
		}
	}
}

// WithQueuer injects a custom notification queuer.
func WithQueuer(queuer notify.Queuer) Option {
	return func(p *Pipeline) {
		if queuer != nil {
			p.queuer = queuer
		}
	}
}

// Pipeline executes one full run for a (channel id, start time) pair.
type Pipeline struct {
	cfg       *config.Config
	store     *catalog.Store
	runner    ToolRunner
	refresher libserver.Refresher
	queuer    notify.Queuer
	runLog    *runlog.RunLog
	logger    *slog.Logger
}

// New assembles a pipeline around an open catalog store.
func New(cfg *config.Config, store *catalog.Store, runLog *runlog.RunLog, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:       cfg,
		store:     store,
		runner:    toolrun.NewRunner(logger),
		refresher: libserver.NewRefresher(cfg),
		queuer:    notify.NewQueuer(cfg),
		runLog:    runLog,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one recording end to end. Fatal errors mark the run log
// failed and queue an operator notification before returning; stage-level
// tool failures are absorbed upstream and never surface here.
func (p *Pipeline) Run(ctx context.Context, chanID, startTime string) error {
	ctx = services.WithRecording(ctx, chanID, startTime)
	if p.runLog != nil {
		ctx = services.WithRunID(ctx, p.runLog.ID)
	}
	if err := p.run(ctx, chanID, startTime); err != nil {
		p.logFail(chanID, startTime, err)
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, chanID, startTime string) error {
	if err := proc.SetNiceness(0, p.cfg.Process.Niceness); err != nil {
		p.logger.Warn("could not lower process priority", logging.Error(err))
	}
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("pipeline starting")

	record, err := p.store.GetRecording(ctx, chanID, startTime)
	if err != nil {
		if errors.Is(err, catalog.ErrAmbiguousOrMissingRecording) {
			return services.Wrap(services.ErrDataIntegrity, "locate", "get recording", "", err)
		}
		return services.Wrap(services.ErrDataIntegrity, "locate", "query catalog", "", err)
	}
	storageDir, err := p.cfg.StorageGroupDir(record.StorageGroup)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "locate", "resolve storage group", "", err)
	}
	original := filepath.Join(storageDir, record.Basename)
	if _, err := os.Stat(original); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "locate", "stat original",
			fmt.Sprintf("recording file %s", original), err)
	}
	logger.Info("recording located",
		logging.String("title", record.Title),
		logging.String("basename", record.Basename),
		logging.String("storage_group", record.StorageGroup),
		logging.String("flag_status", record.FlagStatus.String()))

	tracker := artifact.NewTracker(original)
	if artifact.AlreadyProcessed(original, p.cfg.Transcode.RecordedExtension) {
		logger.Info("artifact extension differs from as-recorded extension, skipping processing stages")
	} else {
		commercialStage := commercials.NewStage(p.cfg, p.store, p.runner, p.logger)
		if err := commercialStage.Process(ctx, record, tracker); err != nil {
			return err
		}
		transcode.NewStage(p.cfg, p.runner, p.logger).Process(ctx, tracker)
	}

	if err := reconcile.New(p.store, p.logger).Run(ctx, record, tracker); err != nil {
		return err
	}
	p.maintainLibrary(record, tracker)

	if err := p.refresher.Refresh(ctx); err != nil {
		logger.Warn("library refresh failed", logging.Error(err))
	}
	if p.runLog != nil {
		logging.CleanupOldLogs(p.logger, p.cfg.Logging.RetentionDays, p.runLog.RetentionTargets()...)
	}
	logger.Info("pipeline finished", logging.String("best", tracker.Best()))
	return nil
}

// maintainLibrary runs the unconditional tail: the recording ends up linked
// into the library even when every processing stage failed.
func (p *Pipeline) maintainLibrary(record *catalog.Record, tracker *artifact.Tracker) {
	manager := librarylink.NewManager(p.cfg, p.logger)
	link, err := manager.EnsureLink(record, tracker.Best())
	if err != nil {
		p.logger.Warn("could not create library link", logging.Error(err))
	}
	if _, err := manager.PruneBrokenLinks(link); err != nil {
		p.logger.Warn("broken-link sweep failed", logging.Error(err))
	}
	if _, err := manager.PruneEmptyDirs(); err != nil {
		p.logger.Warn("empty-directory sweep failed", logging.Error(err))
	}
}

// logFail marks the run log failed and queues an operator notification.
func (p *Pipeline) logFail(chanID, startTime string, cause error) {
	p.logger.Error("pipeline aborted", logging.Error(cause))
	subject := fmt.Sprintf("recut failed for %s at %s", chanID, startTime)
	body := cause.Error()
	if p.runLog != nil {
		if failedPath, err := p.runLog.MarkFailed(); err != nil {
			p.logger.Warn("could not mark run log failed", logging.Error(err))
		} else {
			body = fmt.Sprintf("%s\nrun log: %s", body, failedPath)
		}
	}
	if err := p.queuer.Enqueue(notify.Message{
		ChanID:    chanID,
		StartTime: startTime,
		Subject:   subject,
		Body:      body,
	}); err != nil {
		p.logger.Warn("could not queue failure notification", logging.Error(err))
	}
}
