package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataIntegrity marks fatal catalog/filesystem inconsistencies. The run
	// aborts immediately and the run log is marked failed.
	ErrDataIntegrity = errors.New("data integrity error")
	// ErrExternalTool marks a non-fatal external tool failure. The pipeline
	// continues with the best artifact available at the point of failure.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks a precondition violation detected before acting.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrBestEffort marks failures that are logged and never escalate.
	ErrBestEffort = errors.New("best-effort failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole run. Unrecognized
// catalog values, ambiguous lookups, and broken reconciliation preconditions
// all carry the data-integrity marker.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDataIntegrity)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
