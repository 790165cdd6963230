package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recut/internal/artifact"
	"recut/internal/catalog"
	"recut/internal/services"
	"recut/internal/testsupport"
)

func TestRunIsNoopWithoutAdvancement(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	rec := testsupport.SeedRecording(t, store, catalog.Record{})

	tracker := artifact.NewTracker(filepath.Join(testsupport.StorageDir(t, cfg, rec.StorageGroup), rec.Basename))
	if err := New(store, nil).Run(context.Background(), &rec, tracker); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got, err := store.GetRecording(context.Background(), rec.ChanID, rec.StartTime)
	if err != nil {
		t.Fatalf("get recording: %v", err)
	}
	if got.Basename != rec.Basename || got.Transcoded {
		t.Fatal("catalog row must be untouched when best never advanced")
	}
}

func TestRunReconcilesAfterTranscode(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	rec := testsupport.SeedRecording(t, store, catalog.Record{})
	if err := store.AddSeekEntry(ctx, rec.ChanID, rec.StartTime, 100, 4096); err != nil {
		t.Fatalf("seed seek entry: %v", err)
	}
	if err := store.AddMarkupEntry(ctx, rec.ChanID, rec.StartTime, 0, 2); err != nil {
		t.Fatalf("seed markup entry: %v", err)
	}

	dir := testsupport.StorageDir(t, cfg, rec.StorageGroup)
	original := filepath.Join(dir, rec.Basename)
	transcoded := filepath.Join(dir, "1051_20260829210000.mkv")
	preview := original + ".png"
	testsupport.WriteFile(t, original, 4096)
	testsupport.WriteFile(t, transcoded, 1024)
	testsupport.WriteFile(t, preview, 16)

	tracker := artifact.NewTracker(original)
	if err := tracker.Promote(artifact.StageTranscoded, transcoded); err != nil {
		t.Fatalf("promote: %v", err)
	}
	tracker.TranscodeSucceeded = true

	if err := New(store, nil).Run(ctx, &rec, tracker); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got, err := store.GetRecording(ctx, rec.ChanID, rec.StartTime)
	if err != nil {
		t.Fatalf("get recording: %v", err)
	}
	if got.Basename != "1051_20260829210000.mkv" {
		t.Fatalf("basename = %q", got.Basename)
	}
	if got.Filesize != 1024 {
		t.Fatalf("filesize = %d, want 1024", got.Filesize)
	}
	if !got.Transcoded {
		t.Fatal("transcoded flag not set")
	}
	seekRows, markupRows, err := store.DerivedRowCounts(ctx, rec.ChanID, rec.StartTime)
	if err != nil {
		t.Fatalf("derived row counts: %v", err)
	}
	if seekRows != 0 || markupRows != 0 {
		t.Fatalf("derived rows remain: seek=%d markup=%d", seekRows, markupRows)
	}
	if _, err := os.Stat(original); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("orphaned original must be deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "1051_20260829210000.mkv.png")); err != nil {
		t.Fatalf("preview image not renamed: %v", err)
	}
}

func TestRunRemovesScratchIntermediate(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	rec := testsupport.SeedRecording(t, store, catalog.Record{})

	dir := testsupport.StorageDir(t, cfg, rec.StorageGroup)
	original := filepath.Join(dir, rec.Basename)
	intermediate := filepath.Join(cfg.Paths.ScratchDir, rec.Basename)
	transcoded := filepath.Join(dir, "1051_20260829210000.mkv")
	testsupport.WriteFile(t, original, 4096)
	testsupport.WriteFile(t, intermediate, 2048)
	testsupport.WriteFile(t, transcoded, 1024)

	tracker := artifact.NewTracker(original)
	if err := tracker.Promote(artifact.StageCommercialFree, intermediate); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if err := tracker.Promote(artifact.StageTranscoded, transcoded); err != nil {
		t.Fatalf("promote: %v", err)
	}
	tracker.TranscodeSucceeded = true

	if err := New(store, nil).Run(ctx, &rec, tracker); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, orphan := range []string{original, intermediate} {
		if _, err := os.Stat(orphan); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("orphan %s must be deleted", orphan)
		}
	}
	if _, err := os.Stat(transcoded); err != nil {
		t.Fatalf("best artifact must survive: %v", err)
	}
}

func TestRunRelocatesScratchWinner(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	rec := testsupport.SeedRecording(t, store, catalog.Record{})

	dir := testsupport.StorageDir(t, cfg, rec.StorageGroup)
	original := filepath.Join(dir, rec.Basename)
	intermediate := filepath.Join(cfg.Paths.ScratchDir, rec.Basename)
	testsupport.WriteFile(t, original, 4096)
	testsupport.WriteFile(t, intermediate, 2048)

	tracker := artifact.NewTracker(original)
	if err := tracker.Promote(artifact.StageCommercialFree, intermediate); err != nil {
		t.Fatalf("promote: %v", err)
	}

	if err := New(store, nil).Run(ctx, &rec, tracker); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// The intermediate moved into the storage directory under the original's
	// name; the catalog keeps resolving and nothing lingers in scratch.
	if tracker.Best() != original {
		t.Fatalf("best = %q, want %q", tracker.Best(), original)
	}
	info, err := os.Stat(original)
	if err != nil {
		t.Fatalf("relocated artifact missing: %v", err)
	}
	if info.Size() != 2048 {
		t.Fatalf("artifact size = %d, want the intermediate's 2048", info.Size())
	}
	if _, err := os.Stat(intermediate); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("scratch intermediate must be gone after relocation")
	}
	got, err := store.GetRecording(ctx, rec.ChanID, rec.StartTime)
	if err != nil {
		t.Fatalf("get recording: %v", err)
	}
	if got.Basename != rec.Basename {
		t.Fatalf("basename = %q, want %q", got.Basename, rec.Basename)
	}
	if got.Filesize != 2048 {
		t.Fatalf("filesize = %d, want 2048", got.Filesize)
	}
	if got.Transcoded {
		t.Fatal("transcoded flag must stay unset")
	}
}

func TestRunFailsWhenArtifactMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	rec := testsupport.SeedRecording(t, store, catalog.Record{})

	tracker := artifact.NewTracker(filepath.Join(testsupport.StorageDir(t, cfg, rec.StorageGroup), rec.Basename))
	if err := tracker.Promote(artifact.StageTranscoded, filepath.Join(testsupport.StorageDir(t, cfg, rec.StorageGroup), "missing.mkv")); err != nil {
		t.Fatalf("promote: %v", err)
	}
	err := New(store, nil).Run(context.Background(), &rec, tracker)
	if !errors.Is(err, services.ErrDataIntegrity) {
		t.Fatalf("expected data-integrity error, got %v", err)
	}
	got, lookupErr := store.GetRecording(context.Background(), rec.ChanID, rec.StartTime)
	if lookupErr != nil {
		t.Fatalf("get recording: %v", lookupErr)
	}
	if got.Basename != rec.Basename {
		t.Fatal("catalog must not be updated when the artifact is missing")
	}
}
