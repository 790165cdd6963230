package services_test

import (
	"errors"
	"strings"
	"testing"

	"recut/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 143")
	err := services.Wrap(services.ErrExternalTool, "flagging", "run flagger", "Flagger exited abnormally", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped base error to survive")
	}
	if !strings.Contains(err.Error(), "flagging: run flagger") {
		t.Fatalf("missing stage detail: %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	fatal := services.Wrap(services.ErrDataIntegrity, "locate", "lookup", "no matching recording", nil)
	if !services.IsFatal(fatal) {
		t.Fatal("expected data-integrity error to be fatal")
	}
	soft := services.Wrap(services.ErrExternalTool, "transcoding", "convert", "converter failed", nil)
	if services.IsFatal(soft) {
		t.Fatal("external tool failure must not be fatal")
	}
}
