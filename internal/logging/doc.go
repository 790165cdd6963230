// Package logging builds the slog loggers used across recut: a console
// handler for interactive runs, a JSON handler for machine consumption, and
// helpers for context-derived fields and run-log retention.
package logging
