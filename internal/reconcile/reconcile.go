// Package reconcile synchronizes the catalog row and the recording's
// storage directory with the artifact that won the pipeline run.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"recut/internal/artifact"
	"recut/internal/catalog"
	"recut/internal/logging"
	"recut/internal/services"
)

// CatalogWriter is the bounded catalog surface reconciliation needs.
type CatalogWriter interface {
	UpdateArtifact(ctx context.Context, chanID, startTime, basename string, filesize int64, transcoded bool) error
	PurgeDerived(ctx context.Context, chanID, startTime string) (seekRows, markupRows int64, err error)
}

// Reconciler applies the post-substitution catalog and filesystem updates.
type Reconciler struct {
	store  CatalogWriter
	logger *slog.Logger
}

// New constructs a reconciler.
func New(store CatalogWriter, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		store:  store,
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

// Run finalizes an artifact substitution. It is a no-op when best never
// advanced past the original. The steps run in a fixed order and every
// failure is fatal: the catalog must never be left referencing a file that
// is not on disk, and it must never serve seek offsets for a file whose
// bytes changed.
//
//  1. move the new best artifact into the storage directory if it was
//     produced in scratch, so the catalog basename keeps resolving
//  2. confirm the new best artifact exists and read its size
//  3. write basename, filesize, and the transcoded flag in one update
//  4. purge the derived seek and bookmark rows for this recording
//  5. delete the orphaned artifacts the winner superseded
//  6. rename sibling preview images so they track the new basename
func (r *Reconciler) Run(ctx context.Context, record *catalog.Record, tracker *artifact.Tracker) error {
	if !tracker.Advanced() {
		r.logger.Info("best artifact never advanced, nothing to reconcile")
		return nil
	}
	best := tracker.Best()
	storageDir := filepath.Dir(tracker.Original())
	if filepath.Dir(best) != storageDir {
		// The catalog resolves a basename against the storage directory, so
		// a winner left in scratch has to move there before the row can
		// reference it.
		dest := filepath.Join(storageDir, filepath.Base(best))
		if err := moveFile(best, dest); err != nil {
			return services.Wrap(services.ErrDataIntegrity, "reconcile", "relocate artifact",
				"move best artifact into storage directory", err)
		}
		tracker.Relocate(dest)
		best = dest
		r.logger.Info("moved scratch artifact into storage directory",
			logging.String("path", dest))
	}
	info, err := os.Stat(best)
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "reconcile", "verify artifact",
			"new best artifact missing on disk", err)
	}
	newBasename := filepath.Base(best)
	r.logger.Info("reconciling catalog with new artifact",
		logging.String("basename", newBasename),
		logging.Int64("filesize", info.Size()),
		logging.Bool("transcoded", tracker.TranscodeSucceeded))

	if err := r.store.UpdateArtifact(ctx, record.ChanID, record.StartTime, newBasename, info.Size(), tracker.TranscodeSucceeded); err != nil {
		return services.Wrap(services.ErrDataIntegrity, "reconcile", "update catalog", "", err)
	}
	seekRows, markupRows, err := r.store.PurgeDerived(ctx, record.ChanID, record.StartTime)
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "reconcile", "purge derived rows", "", err)
	}
	r.logger.Info("purged stale derived rows",
		logging.Int64("seek_rows", seekRows),
		logging.Int64("markup_rows", markupRows))

	if err := r.removeOrphans(tracker, best); err != nil {
		return err
	}
	if err := r.renamePreviews(filepath.Dir(tracker.Original()), record.Basename, newBasename); err != nil {
		return err
	}
	return nil
}

// removeOrphans deletes every artifact the winner superseded: the original,
// and the scratch intermediate when the transcode consumed it.
func (r *Reconciler) removeOrphans(tracker *artifact.Tracker, best string) error {
	for _, orphan := range tracker.Superseded() {
		if orphan == best {
			// Relocation reused the original's path; the file there now is
			// the winner, not an orphan.
			continue
		}
		if err := os.Remove(orphan); err != nil && !errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrDataIntegrity, "reconcile", "remove orphan", orphan, err)
		}
		r.logger.Info("removed orphaned artifact", logging.String("path", orphan))
	}
	return nil
}

// renamePreviews moves preview images whose names start with the old
// basename so the library server keeps finding them.
func (r *Reconciler) renamePreviews(dir, oldBasename, newBasename string) error {
	if oldBasename == "" || oldBasename == newBasename {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, oldBasename+"*.png"))
	if err != nil {
		return services.Wrap(services.ErrDataIntegrity, "reconcile", "scan previews", "", err)
	}
	for _, match := range matches {
		suffix := strings.TrimPrefix(filepath.Base(match), oldBasename)
		dest := filepath.Join(dir, newBasename+suffix)
		if err := os.Rename(match, dest); err != nil {
			return services.Wrap(services.ErrDataIntegrity, "reconcile", "rename preview", match, err)
		}
		r.logger.Info("renamed preview image",
			logging.String("from", filepath.Base(match)),
			logging.String("to", filepath.Base(dest)))
	}
	return nil
}

// moveFile renames src onto dest, copying when the scratch and storage
// directories sit on different filesystems.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}
	if err := copyFileContents(src, dest); err != nil {
		return fmt.Errorf("copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func copyFileContents(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
