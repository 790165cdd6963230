package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"recut/internal/services"
)

func TestPrettyHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("link created",
		String(FieldComponent, "librarylink"),
		String("target", "/srv/recordings/show.mkv"),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO librarylink: link created") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "target=/srv/recordings/show.mkv") {
		t.Fatalf("missing attribute: %q", out)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Warn("collision", String("name", "Foo_ Bar (2001)"))

	if !strings.Contains(buf.String(), `name="Foo_ Bar (2001)"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
	logger.Error("emitted")
	if !strings.Contains(buf.String(), "ERROR emitted") {
		t.Fatalf("expected error emitted, got %q", buf.String())
	}
}

func TestWithContextAddsRecordingFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, levelVar))

	ctx := services.WithRecording(context.Background(), "1051", "20260830120000")
	ctx = services.WithStage(ctx, "flagging")
	ctx = services.WithRunID(ctx, "abc123")

	WithContext(ctx, logger).Info("stage started")

	out := buf.String()
	for _, want := range []string{"chan_id=1051", "start_time=20260830120000", "stage=flagging", "run_id=abc123"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
