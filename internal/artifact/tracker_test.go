package artifact

import (
	"errors"
	"testing"
)

func TestTrackerPromotionIsMonotonic(t *testing.T) {
	tracker := NewTracker("/srv/rec/1051_20260829210000.ts")
	if tracker.Best() != tracker.Original() {
		t.Fatal("best must start at original")
	}
	if tracker.Advanced() {
		t.Fatal("tracker must not start advanced")
	}

	if err := tracker.Promote(StageCommercialFree, "/scratch/1051_20260829210000.ts"); err != nil {
		t.Fatalf("promote to commercial_free failed: %v", err)
	}
	if tracker.Stage() != StageCommercialFree {
		t.Fatalf("unexpected stage %v", tracker.Stage())
	}
	if !tracker.Advanced() {
		t.Fatal("tracker must report advanced after promotion")
	}

	if err := tracker.Promote(StageTranscoded, "/srv/rec/1051_20260829210000.mkv"); err != nil {
		t.Fatalf("promote to transcoded failed: %v", err)
	}
	if tracker.Best() != "/srv/rec/1051_20260829210000.mkv" {
		t.Fatalf("unexpected best %q", tracker.Best())
	}

	superseded := tracker.Superseded()
	if len(superseded) != 2 {
		t.Fatalf("superseded = %v, want original and intermediate", superseded)
	}
	if superseded[0] != "/srv/rec/1051_20260829210000.ts" || superseded[1] != "/scratch/1051_20260829210000.ts" {
		t.Fatalf("superseded = %v, wrong order", superseded)
	}
}

func TestTrackerRelocateMovesBestOnly(t *testing.T) {
	tracker := NewTracker("/srv/rec/a.ts")
	if err := tracker.Promote(StageCommercialFree, "/scratch/a.ts"); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	tracker.Relocate("/srv/rec/a.ts")
	if tracker.Best() != "/srv/rec/a.ts" {
		t.Fatalf("best = %q after relocate", tracker.Best())
	}
	if tracker.Stage() != StageCommercialFree {
		t.Fatalf("relocate must not change stage, got %v", tracker.Stage())
	}
	if got := tracker.Superseded(); len(got) != 1 || got[0] != "/srv/rec/a.ts" {
		t.Fatalf("superseded = %v, relocate must not record history", got)
	}
}

func TestTrackerRejectsDemotion(t *testing.T) {
	tracker := NewTracker("/srv/rec/a.ts")
	if err := tracker.Promote(StageTranscoded, "/srv/rec/a.mkv"); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	err := tracker.Promote(StageCommercialFree, "/scratch/a.ts")
	if !errors.Is(err, ErrDemotion) {
		t.Fatalf("expected ErrDemotion, got %v", err)
	}
	if tracker.Best() != "/srv/rec/a.mkv" {
		t.Fatal("failed promotion must not change best")
	}
}

func TestTrackerRejectsSameStage(t *testing.T) {
	tracker := NewTracker("/srv/rec/a.ts")
	if err := tracker.Promote(StageOriginal, "/srv/rec/b.ts"); !errors.Is(err, ErrDemotion) {
		t.Fatalf("expected ErrDemotion for same-stage promote, got %v", err)
	}
}

func TestTrackerRejectsEmptyPath(t *testing.T) {
	tracker := NewTracker("/srv/rec/a.ts")
	if err := tracker.Promote(StageCommercialFree, "  "); err == nil {
		t.Fatal("expected error for empty promotion path")
	}
}

func TestAlreadyProcessed(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		want bool
	}{
		{"/srv/rec/a.ts", ".ts", false},
		{"/srv/rec/a.TS", ".ts", false},
		{"/srv/rec/a.mkv", ".ts", true},
		{"/srv/rec/a", ".ts", true},
	}
	for _, tc := range cases {
		if got := AlreadyProcessed(tc.path, tc.ext); got != tc.want {
			t.Fatalf("AlreadyProcessed(%q, %q) = %v, want %v", tc.path, tc.ext, got, tc.want)
		}
	}
}
