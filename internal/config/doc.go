// Package config loads, normalizes, and validates the recut configuration.
// A Config is constructed once at process start and passed explicitly to
// every component; no package holds ambient configuration state.
package config
