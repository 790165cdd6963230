package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for %s", path)
	}
	if cfg.Transcode.TargetExtension != ".mkv" {
		t.Fatalf("unexpected target extension %q", cfg.Transcode.TargetExtension)
	}
	if cfg.Transcode.RecordedExtension != ".ts" {
		t.Fatalf("unexpected recorded extension %q", cfg.Transcode.RecordedExtension)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadParsesStorageGroupsAndChannels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
catalog_db = "` + filepath.Join(dir, "catalog.db") + `"
library_dir = "` + filepath.Join(dir, "library") + `"
scratch_dir = "` + filepath.Join(dir, "scratch") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[storage_groups]
Default = "` + filepath.Join(dir, "recordings") + `"
Movies = "` + filepath.Join(dir, "movies") + `"

[channels]
commercial_free = ["1051", " 1051 ", "2022", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}

	got, err := cfg.StorageGroupDir("Movies")
	if err != nil {
		t.Fatalf("StorageGroupDir failed: %v", err)
	}
	if got != filepath.Join(dir, "movies") {
		t.Fatalf("unexpected storage group dir %q", got)
	}
	if _, err := cfg.StorageGroupDir("LiveTV"); err == nil {
		t.Fatal("expected error for unregistered storage group")
	}

	if len(cfg.Channels.CommercialFree) != 2 {
		t.Fatalf("expected deduplicated channel list, got %v", cfg.Channels.CommercialFree)
	}
	if !cfg.IsCommercialFreeChannel("1051") {
		t.Fatal("expected 1051 to be commercial free")
	}
	if cfg.IsCommercialFreeChannel("9999") {
		t.Fatal("did not expect 9999 to be commercial free")
	}
}

func TestValidateRejectsMatchingExtensions(t *testing.T) {
	cfg := config.Default()
	cfg.Transcode.RecordedExtension = ".mkv"
	cfg.Transcode.TargetExtension = ".mkv"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for matching extensions")
	}
	if !strings.Contains(err.Error(), "target_extension") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadNiceness(t *testing.T) {
	cfg := config.Default()
	cfg.Process.Niceness = 25
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for niceness out of range")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}

func TestStorageGroupDirDefaultsBlankName(t *testing.T) {
	cfg := config.Default()
	cfg.StorageGroups = map[string]string{"Default": "/srv/recordings"}
	dir, err := cfg.StorageGroupDir("  ")
	if err != nil {
		t.Fatalf("StorageGroupDir failed: %v", err)
	}
	if dir != "/srv/recordings" {
		t.Fatalf("unexpected dir %q", dir)
	}
}
