package testsupport

import (
	"context"
	"testing"

	"recut/internal/catalog"
	"recut/internal/config"
)

// MustOpenCatalog opens the catalog store for a test config and registers
// cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedRecording inserts a catalog row, applying sensible defaults for
// unset fields.
func SeedRecording(t testing.TB, store *catalog.Store, record catalog.Record) catalog.Record {
	t.Helper()
	if record.ChanID == "" {
		record.ChanID = "1051"
	}
	if record.StartTime == "" {
		record.StartTime = "2026-08-29 21:00:00"
	}
	if record.Title == "" {
		record.Title = "Sample Program"
	}
	if record.Basename == "" {
		record.Basename = record.ChanID + "_20260829210000.ts"
	}
	if record.StorageGroup == "" {
		record.StorageGroup = "Default"
	}
	if err := store.InsertRecording(context.Background(), &record); err != nil {
		t.Fatalf("seed recording: %v", err)
	}
	return record
}
