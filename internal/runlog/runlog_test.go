package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recut/internal/testsupport"
)

func TestNewAllocatesUniquePaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := New(cfg, "1051")
	if err != nil {
		t.Fatalf("new run log: %v", err)
	}
	second, err := New(cfg, "1051")
	if err != nil {
		t.Fatalf("new run log: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("run log paths must be unique per invocation")
	}
	if first.ID == second.ID {
		t.Fatal("run ids must be unique")
	}
	if filepath.Dir(first.Path) != cfg.Paths.LogDir {
		t.Fatalf("run log dir = %q, want %q", filepath.Dir(first.Path), cfg.Paths.LogDir)
	}
	if !strings.Contains(filepath.Base(first.Path), "1051") {
		t.Fatalf("run log name %q missing channel id", filepath.Base(first.Path))
	}
}

func TestMarkFailedRenames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	run, err := New(cfg, "1051")
	if err != nil {
		t.Fatalf("new run log: %v", err)
	}
	original := run.Path
	testsupport.WriteFile(t, run.Path, 32)

	failed, err := run.MarkFailed()
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if failed != original+FailedSuffix {
		t.Fatalf("failed path = %q", failed)
	}
	if _, err := os.Stat(original); !os.IsNotExist(err) {
		t.Fatal("original log must be renamed away")
	}
	if _, err := os.Stat(failed); err != nil {
		t.Fatalf("failed log missing: %v", err)
	}
}

func TestMarkFailedToleratesMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	run, err := New(cfg, "1051")
	if err != nil {
		t.Fatalf("new run log: %v", err)
	}
	if _, err := run.MarkFailed(); err != nil {
		t.Fatalf("mark failed on missing file: %v", err)
	}
}
