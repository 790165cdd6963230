// Package runlog manages the per-run log file: its placement, its run
// identifier, and the rename that marks a failed run for the operator.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"recut/internal/config"
	"recut/internal/logging"
)

// FailedSuffix is appended to a run log's name when the run fails, so a
// directory listing surfaces failures at a glance.
const FailedSuffix = ".failed"

// RunLog identifies one pipeline invocation's log file.
type RunLog struct {
	ID   string
	Path string
}

// New allocates a run identifier and the log path for one invocation. The
// file itself is created lazily by the logger.
func New(cfg *config.Config, chanID string) (*RunLog, error) {
	id := uuid.NewString()
	dir := cfg.Paths.LogDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("recut_%s_%s_%s.log", time.Now().UTC().Format("20060102T150405"), chanID, id)
	return &RunLog{
		ID:   id,
		Path: filepath.Join(dir, name),
	}, nil
}

// MarkFailed renames the run log with the failed suffix. Missing files are
// tolerated; the run may have failed before the first log write.
func (r *RunLog) MarkFailed() (string, error) {
	failedPath := r.Path + FailedSuffix
	if err := os.Rename(r.Path, failedPath); err != nil {
		if os.IsNotExist(err) {
			return r.Path, nil
		}
		return "", err
	}
	r.Path = failedPath
	return failedPath, nil
}

// RetentionTargets describes which log files the retention sweep may
// delete: everything in the log directory except the current run's file.
func (r *RunLog) RetentionTargets() []logging.RetentionTarget {
	return []logging.RetentionTarget{
		{
			Dir:     filepath.Dir(r.Path),
			Pattern: "recut_*.log",
			Exclude: []string{r.Path},
		},
		{
			Dir:     filepath.Dir(r.Path),
			Pattern: "recut_*.log" + FailedSuffix,
			Exclude: []string{r.Path},
		},
	}
}
