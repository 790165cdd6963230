package artifact

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Stage identifies one lifecycle stage of a recording's physical file.
type Stage int

const (
	// StageOriginal is the file as recorded, commercials possibly present.
	StageOriginal Stage = iota
	// StageCommercialFree is the scratch intermediate with commercial
	// segments removed, same container family as the original.
	StageCommercialFree
	// StageTranscoded is the final container/codec, stored alongside the
	// original's directory.
	StageTranscoded
)

func (s Stage) String() string {
	switch s {
	case StageOriginal:
		return "original"
	case StageCommercialFree:
		return "commercial_free"
	case StageTranscoded:
		return "transcoded"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrDemotion is returned when a caller attempts to move "best" backward.
var ErrDemotion = errors.New("artifact promotion must move forward")

// Tracker holds the current best artifact pointer and the outcome flags for
// each pipeline stage. It performs no I/O; stages promote it only after their
// output artifact is confirmed on disk.
type Tracker struct {
	original   string
	best       string
	stage      Stage
	superseded []string

	CommercialsFlagged bool
	CutListGenerated   bool
	CommercialsRemoved bool
	TranscodeSucceeded bool
}

// NewTracker starts tracking with the original recording as best.
func NewTracker(originalPath string) *Tracker {
	return &Tracker{
		original: originalPath,
		best:     originalPath,
		stage:    StageOriginal,
	}
}

// Original returns the as-recorded artifact path.
func (t *Tracker) Original() string { return t.original }

// Best returns the newest non-orphaned artifact path.
func (t *Tracker) Best() string { return t.best }

// Stage returns the lifecycle stage of the best artifact.
func (t *Tracker) Stage() Stage { return t.stage }

// Promote moves "best" forward to a later lifecycle stage. It is only called
// by a stage that succeeded; moving backward or sideways is an error.
func (t *Tracker) Promote(next Stage, path string) error {
	if next <= t.stage {
		return fmt.Errorf("%w: %s -> %s", ErrDemotion, t.stage, next)
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("promotion path is empty")
	}
	if path != t.best {
		t.superseded = append(t.superseded, t.best)
	}
	t.stage = next
	t.best = path
	return nil
}

// Relocate updates best's path after the file moved on disk. The stage and
// the superseded history are unchanged; the old path is gone, not orphaned.
func (t *Tracker) Relocate(path string) {
	t.best = path
}

// Superseded lists the artifacts earlier promotions orphaned, oldest first.
// They are safe to delete only after the catalog references the new best.
func (t *Tracker) Superseded() []string {
	return t.superseded
}

// Advanced reports whether best has moved past the original artifact.
func (t *Tracker) Advanced() bool {
	return t.stage != StageOriginal
}

// AlreadyProcessed reports whether the original file's extension no longer
// matches the as-recorded extension. A prior run has then already replaced
// the artifact, and detection/transcode are skipped entirely.
func AlreadyProcessed(originalPath, recordedExtension string) bool {
	ext := strings.ToLower(filepath.Ext(originalPath))
	return ext != strings.ToLower(strings.TrimSpace(recordedExtension))
}
