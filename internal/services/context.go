package services

import "context"

type contextKey string

const (
	chanIDKey    contextKey = "chan_id"
	startTimeKey contextKey = "start_time"
	stageKey     contextKey = "stage"
	runIDKey     contextKey = "run_id"
)

// WithRecording annotates context with the recording identity.
func WithRecording(ctx context.Context, chanID, startTime string) context.Context {
	if chanID != "" {
		ctx = context.WithValue(ctx, chanIDKey, chanID)
	}
	if startTime != "" {
		ctx = context.WithValue(ctx, startTimeKey, startTime)
	}
	return ctx
}

// RecordingFromContext extracts the recording identity if present.
func RecordingFromContext(ctx context.Context) (chanID, startTime string, ok bool) {
	chanID, _ = ctx.Value(chanIDKey).(string)
	startTime, _ = ctx.Value(startTimeKey).(string)
	return chanID, startTime, chanID != "" || startTime != ""
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
